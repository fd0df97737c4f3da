package petition

import "github.com/saxenaaman628/decentralizeit/internal/models"

// transitions lists the allowed forward edges. Archived and Closed are terminal.
var transitions = map[models.Status][]models.Status{
	models.StatusDraft:  {models.StatusLive},
	models.StatusLive:   {models.StatusVoting},
	models.StatusVoting: {models.StatusArchived, models.StatusClosed},
}

// CanTransition reports whether a petition may move from one status to another.
func CanTransition(from, to models.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable in one step from s.
func NextStatuses(s models.Status) []models.Status {
	next := transitions[s]
	out := make([]models.Status, len(next))
	copy(out, next)
	return out
}

func acceptsSignatures(s models.Status) bool {
	return s == models.StatusLive
}

// AcceptsProposals reports whether outcomes may be proposed in status s.
func AcceptsProposals(s models.Status) bool {
	return s == models.StatusLive || s == models.StatusVoting
}

// AcceptsVotes reports whether outcomes may be voted on in status s.
func AcceptsVotes(s models.Status) bool {
	return s == models.StatusVoting
}
