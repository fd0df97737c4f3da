// Package outcome keeps the proposed outcomes of petitions and their votes.
// Outcomes live in memory unless the caller persists them.
package outcome

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/logger"
	"github.com/saxenaaman628/decentralizeit/internal/models"
	"github.com/saxenaaman628/decentralizeit/internal/petition"
	"github.com/saxenaaman628/decentralizeit/internal/session"
	"github.com/saxenaaman628/decentralizeit/internal/store"
)

const minDescriptionLen = 10

// PetitionFinder resolves the parent petition of an outcome.
type PetitionFinder interface {
	FindByID(ctx context.Context, id string) (models.Petition, error)
}

type Options struct {
	ProposeDelay time.Duration
	// AutoPersist writes the outcome collection after every propose and vote.
	AutoPersist bool
}

type Ledger struct {
	store     store.Store
	petitions PetitionFinder
	opts      Options
	now       func() time.Time

	mu       sync.Mutex
	outcomes []models.ProposedOutcome
}

func NewLedger(s store.Store, petitions PetitionFinder, opts Options) *Ledger {
	return &Ledger{
		store:     s,
		petitions: petitions,
		opts:      opts,
		now:       time.Now,
		outcomes:  []models.ProposedOutcome{},
	}
}

// VoteResult is returned from a successful Vote.
type VoteResult struct {
	Outcome   models.ProposedOutcome `json:"outcome"`
	ReceiptID string                 `json:"receiptId"`
}

// Propose appends an outcome to a Live or Voting petition.
func (l *Ledger) Propose(ctx context.Context, sess session.Session, petitionID, description string) (models.ProposedOutcome, error) {
	user, err := sess.Require()
	if err != nil {
		return models.ProposedOutcome{}, err
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) < minDescriptionLen {
		return models.ProposedOutcome{}, apperr.ErrOutcomeTooShort
	}

	p, err := l.petitions.FindByID(ctx, petitionID)
	if err != nil {
		return models.ProposedOutcome{}, err
	}
	if !petition.AcceptsProposals(p.Status) {
		return models.ProposedOutcome{}, apperr.ErrProposalsClosed.WithMessage("cannot propose outcomes while petition is %s", p.Status)
	}

	time.Sleep(l.opts.ProposeDelay)

	o := models.ProposedOutcome{
		ID:                 "o_" + uuid.NewString(),
		PetitionID:         petitionID,
		Description:        description,
		ProposedByUserID:   user.ID,
		ProposedByUserName: user.Name,
		VotesFor:           0,
		VotesAgainst:       0,
		CreatedAt:          l.now().UTC(),
	}

	l.mu.Lock()
	l.outcomes = append(l.outcomes, o)
	l.mu.Unlock()

	logger.Info("outcome proposed", zap.String("outcome_id", o.ID), zap.String("petition_id", petitionID))
	l.autoPersist(ctx)
	return o, nil
}

// Vote records one vote per user per outcome while the parent petition is in
// Voting. Votes cannot be retracted or changed.
func (l *Ledger) Vote(ctx context.Context, sess session.Session, outcomeID string, dir models.VoteDirection) (VoteResult, error) {
	user, err := sess.Require()
	if err != nil {
		return VoteResult{}, err
	}
	if !dir.Valid() {
		return VoteResult{}, apperr.ErrInvalidVote
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(outcomeID)
	if i < 0 {
		return VoteResult{}, apperr.ErrOutcomeNotFound
	}

	voteKey := store.VotedKey(outcomeID, user.ID)
	_, voted, err := l.store.Get(ctx, voteKey)
	if err != nil {
		return VoteResult{}, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	if voted {
		return VoteResult{}, apperr.ErrAlreadyVoted
	}

	p, err := l.petitions.FindByID(ctx, l.outcomes[i].PetitionID)
	if err != nil {
		return VoteResult{}, err
	}
	if !petition.AcceptsVotes(p.Status) {
		return VoteResult{}, apperr.ErrVotingClosed.WithMessage("cannot vote while petition is %s", p.Status)
	}

	if err := l.store.Set(ctx, voteKey, string(dir)); err != nil {
		return VoteResult{}, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	if dir == models.VoteFor {
		l.outcomes[i].VotesFor++
	} else {
		l.outcomes[i].VotesAgainst++
	}
	result := VoteResult{
		Outcome:   l.outcomes[i],
		ReceiptID: fmt.Sprintf("vote_%x", l.now().UnixMilli()),
	}

	logger.Info("vote recorded",
		zap.String("outcome_id", outcomeID),
		zap.String("user_id", user.ID),
		zap.String("direction", string(dir)))
	if l.opts.AutoPersist {
		if err := l.persistLocked(ctx); err != nil {
			logger.Warn("failed to persist outcomes", zap.Error(err))
		}
	}
	return result, nil
}

// VoteOf reports the recorded vote of userID on outcomeID, if any.
func (l *Ledger) VoteOf(ctx context.Context, outcomeID, userID string) (models.VoteDirection, bool, error) {
	if userID == "" {
		return "", false, nil
	}
	v, found, err := l.store.Get(ctx, store.VotedKey(outcomeID, userID))
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	return models.VoteDirection(v), found, nil
}

// List returns the outcomes of petitionID in proposal order.
func (l *Ledger) List(petitionID string) []models.ProposedOutcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []models.ProposedOutcome{}
	for _, o := range l.outcomes {
		if o.PetitionID == petitionID {
			out = append(out, o)
		}
	}
	return out
}

func (l *Ledger) Get(outcomeID string) (models.ProposedOutcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.indexOf(outcomeID); i >= 0 {
		return l.outcomes[i], nil
	}
	return models.ProposedOutcome{}, apperr.ErrOutcomeNotFound
}

// Persist writes every outcome under the outcomes key.
func (l *Ledger) Persist(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persistLocked(ctx)
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	if err := store.Save(ctx, l.store, store.OutcomesKey, l.outcomes); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	return nil
}

// Restore replaces the in-memory outcomes with the persisted collection.
func (l *Ledger) Restore(ctx context.Context) (int, error) {
	outcomes, err := store.Load(ctx, l.store, store.OutcomesKey, validateStored)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}

	l.mu.Lock()
	l.outcomes = outcomes
	l.mu.Unlock()
	return len(outcomes), nil
}

func (l *Ledger) autoPersist(ctx context.Context) {
	if !l.opts.AutoPersist {
		return
	}
	if err := l.Persist(ctx); err != nil {
		logger.Warn("failed to persist outcomes", zap.Error(err))
	}
}

func (l *Ledger) indexOf(outcomeID string) int {
	for i, o := range l.outcomes {
		if o.ID == outcomeID {
			return i
		}
	}
	return -1
}

func validateStored(o models.ProposedOutcome) error {
	switch {
	case o.ID == "" || o.PetitionID == "":
		return errors.New("outcome id or petition id missing")
	case o.VotesFor < 0 || o.VotesAgainst < 0:
		return errors.New("negative vote count")
	}
	return nil
}
