package models

import "time"

type VoteDirection string

const (
	VoteFor     VoteDirection = "for"
	VoteAgainst VoteDirection = "against"
)

func (v VoteDirection) Valid() bool {
	return v == VoteFor || v == VoteAgainst
}

// ProposedOutcome is a community-proposed resolution for a petition.
// Vote counters only ever increase.
type ProposedOutcome struct {
	ID                 string    `json:"id"`
	PetitionID         string    `json:"petitionId"`
	Description        string    `json:"description"`
	ProposedByUserID   string    `json:"proposedByUserId"`
	ProposedByUserName string    `json:"proposedByUserName"`
	VotesFor           int       `json:"votesFor"`
	VotesAgainst       int       `json:"votesAgainst"`
	CreatedAt          time.Time `json:"createdAt"`
}
