// Package petition owns the persisted petition collection: queries, the
// signature flow and creator-gated status changes.
package petition

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/logger"
	"github.com/saxenaaman628/decentralizeit/internal/models"
	"github.com/saxenaaman628/decentralizeit/internal/session"
	"github.com/saxenaaman628/decentralizeit/internal/store"
)

const placeholderImage = "https://placehold.co/600x400.png"

// Repository re-reads and re-writes the full collection on every mutation.
// The mutex serialises mutations within one process only; two processes
// sharing a backend can still interleave their read-modify-write cycles.
type Repository struct {
	store     store.Store
	signDelay time.Duration
	now       func() time.Time

	mu       sync.Mutex
	lastNano int64
}

func NewRepository(s store.Store, signDelay time.Duration) *Repository {
	return &Repository{
		store:     s,
		signDelay: signDelay,
		now:       time.Now,
	}
}

// SignResult is returned from a successful Sign.
type SignResult struct {
	Petition models.Petition `json:"petition"`
	TxID     string          `json:"txId"`
}

// Receipt describes whether a user has signed and the stored mock tx id.
type Receipt struct {
	Signed bool   `json:"signed"`
	TxID   string `json:"txId,omitempty"`
}

func (r *Repository) load(ctx context.Context) ([]models.Petition, error) {
	petitions, err := store.Load(ctx, r.store, store.PetitionsKey, validateStored)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}

	seen := make(map[string]struct{}, len(petitions))
	for _, p := range petitions {
		if _, dup := seen[p.ID]; dup {
			logger.Warn("discarding petition collection with duplicate id", zap.String("petition_id", p.ID))
			return []models.Petition{}, nil
		}
		seen[p.ID] = struct{}{}
	}
	return petitions, nil
}

func (r *Repository) save(ctx context.Context, petitions []models.Petition) error {
	if err := store.Save(ctx, r.store, store.PetitionsKey, petitions); err != nil {
		logger.Error("failed to persist petitions", zap.Error(err))
		return fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	return nil
}

// List returns every petition in persisted order.
func (r *Repository) List(ctx context.Context) ([]models.Petition, error) {
	return r.load(ctx)
}

// Search loads the collection and applies Filter.
func (r *Repository) Search(ctx context.Context, c Criteria) ([]models.Petition, error) {
	petitions, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(petitions, c), nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (models.Petition, error) {
	petitions, err := r.load(ctx)
	if err != nil {
		return models.Petition{}, err
	}
	if i := indexOf(petitions, id); i >= 0 {
		return petitions[i], nil
	}
	return models.Petition{}, apperr.ErrPetitionNotFound
}

// Create appends a new Draft petition owned by the session user.
func (r *Repository) Create(ctx context.Context, sess session.Session, draft models.PetitionDraft) (models.Petition, error) {
	user, err := sess.Require()
	if err != nil {
		return models.Petition{}, err
	}
	if err := ValidateDraft(draft); err != nil {
		return models.Petition{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	petitions, err := r.load(ctx)
	if err != nil {
		return models.Petition{}, err
	}

	now := r.now().UTC()
	p := models.Petition{
		ID:          r.nextID(now),
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		CreatorID:   user.ID,
		CreatorName: user.Name,
		Status:      models.StatusDraft,
		Category:    draft.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
		Signatures:  0,
		ImageURL:    placeholderImage,
	}

	petitions = append(petitions, p)
	if err := r.save(ctx, petitions); err != nil {
		return models.Petition{}, err
	}

	logger.Info("petition created", zap.String("petition_id", p.ID), zap.String("creator_id", user.ID))
	return p, nil
}

// nextID derives the id from the clock, bumped so ids from this process never repeat.
func (r *Repository) nextID(now time.Time) string {
	n := now.UnixNano()
	if n <= r.lastNano {
		n = r.lastNano + 1
	}
	r.lastNano = n
	return fmt.Sprintf("petition_%d", n)
}

// Sign records one signature per user on a Live petition. A repeat call is a
// no-op reported as ErrAlreadySigned.
func (r *Repository) Sign(ctx context.Context, sess session.Session, petitionID string) (SignResult, error) {
	user, err := sess.Require()
	if err != nil {
		return SignResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	petitions, err := r.load(ctx)
	if err != nil {
		return SignResult{}, err
	}
	i := indexOf(petitions, petitionID)
	if i < 0 {
		return SignResult{}, apperr.ErrPetitionNotFound
	}
	if !acceptsSignatures(petitions[i].Status) {
		return SignResult{}, apperr.ErrNotLive.WithMessage("cannot sign, petition status is %s", petitions[i].Status)
	}

	signedKey := store.SignedKey(petitionID, user.ID)
	_, signed, err := r.store.Get(ctx, signedKey)
	if err != nil {
		return SignResult{}, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	if signed {
		return SignResult{}, apperr.ErrAlreadySigned
	}

	time.Sleep(r.signDelay)

	// Flags are written before the count and removed again if the save fails.
	txID := fmt.Sprintf("tx_%x", r.now().UnixMilli())
	txKey := store.TxKey(petitionID, user.ID)
	if err := r.store.Set(ctx, signedKey, "true"); err != nil {
		return SignResult{}, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	if err := r.store.Set(ctx, txKey, txID); err != nil {
		r.dropFlags(ctx, signedKey)
		return SignResult{}, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}

	petitions[i].Signatures++
	if err := r.save(ctx, petitions); err != nil {
		r.dropFlags(ctx, signedKey, txKey)
		return SignResult{}, err
	}

	logger.Info("petition signed",
		zap.String("petition_id", petitionID),
		zap.String("user_id", user.ID),
		zap.String("tx_id", txID),
		zap.Int("signatures", petitions[i].Signatures))
	return SignResult{Petition: petitions[i], TxID: txID}, nil
}

func (r *Repository) dropFlags(ctx context.Context, keys ...string) {
	if err := r.store.Del(ctx, keys...); err != nil {
		logger.Error("failed to roll back signature flags", zap.Strings("keys", keys), zap.Error(err))
	}
}

// SignatureReceipt reads the per-user flags for petitionID.
func (r *Repository) SignatureReceipt(ctx context.Context, petitionID, userID string) (Receipt, error) {
	if userID == "" {
		return Receipt{}, nil
	}
	_, signed, err := r.store.Get(ctx, store.SignedKey(petitionID, userID))
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	if !signed {
		return Receipt{}, nil
	}
	txID, _, err := r.store.Get(ctx, store.TxKey(petitionID, userID))
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	return Receipt{Signed: true, TxID: txID}, nil
}

// Delete burns a petition. Only its creator may do so. Per-user signed and tx
// flags are left in place; see StaleFlags.
func (r *Repository) Delete(ctx context.Context, sess session.Session, petitionID string) error {
	user, err := sess.Require()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	petitions, err := r.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(petitions, petitionID)
	if i < 0 {
		return apperr.ErrPetitionNotFound
	}
	if petitions[i].CreatorID != user.ID {
		return apperr.ErrNotCreator
	}

	petitions = append(petitions[:i], petitions[i+1:]...)
	if err := r.save(ctx, petitions); err != nil {
		return err
	}

	logger.Info("petition burned", zap.String("petition_id", petitionID), zap.String("user_id", user.ID))
	return nil
}

// UpdateStatus moves a petition one step along the lifecycle. Only the creator
// may change status and only forward edges are accepted.
func (r *Repository) UpdateStatus(ctx context.Context, sess session.Session, petitionID string, to models.Status) (models.Petition, error) {
	user, err := sess.Require()
	if err != nil {
		return models.Petition{}, err
	}
	if !to.Valid() {
		return models.Petition{}, apperr.ErrInvalidTransition.WithMessage("unknown status %q", to)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	petitions, err := r.load(ctx)
	if err != nil {
		return models.Petition{}, err
	}
	i := indexOf(petitions, petitionID)
	if i < 0 {
		return models.Petition{}, apperr.ErrPetitionNotFound
	}
	if petitions[i].CreatorID != user.ID {
		return models.Petition{}, apperr.ErrNotCreator
	}
	from := petitions[i].Status
	if !CanTransition(from, to) {
		return models.Petition{}, apperr.ErrInvalidTransition.WithMessage("cannot move petition from %s to %s", from, to)
	}

	petitions[i].Status = to
	petitions[i].UpdatedAt = r.now().UTC()
	if err := r.save(ctx, petitions); err != nil {
		return models.Petition{}, err
	}

	logger.Info("petition status changed",
		zap.String("petition_id", petitionID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return petitions[i], nil
}

func (r *Repository) Publish(ctx context.Context, sess session.Session, petitionID string) (models.Petition, error) {
	return r.UpdateStatus(ctx, sess, petitionID, models.StatusLive)
}

func (r *Repository) OpenVoting(ctx context.Context, sess session.Session, petitionID string) (models.Petition, error) {
	return r.UpdateStatus(ctx, sess, petitionID, models.StatusVoting)
}

func (r *Repository) Archive(ctx context.Context, sess session.Session, petitionID string) (models.Petition, error) {
	return r.UpdateStatus(ctx, sess, petitionID, models.StatusArchived)
}

func (r *Repository) Close(ctx context.Context, sess session.Session, petitionID string) (models.Petition, error) {
	return r.UpdateStatus(ctx, sess, petitionID, models.StatusClosed)
}

// StaleFlags lists signed_/tx_ keys whose petition no longer exists. It needs
// a backend that can enumerate keys.
func (r *Repository) StaleFlags(ctx context.Context) ([]string, error) {
	lister, ok := r.store.(store.Lister)
	if !ok {
		return nil, fmt.Errorf("%w: backend cannot list keys", apperr.ErrStorage)
	}
	petitions, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	stale := []string{}
	for _, prefix := range []string{"signed_", "tx_"} {
		keys, err := lister.Keys(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
		}
		for _, k := range keys {
			if !belongsToAny(k, prefix, petitions) {
				stale = append(stale, k)
			}
		}
	}
	return stale, nil
}

func belongsToAny(key, prefix string, petitions []models.Petition) bool {
	for _, p := range petitions {
		if strings.HasPrefix(key, prefix+p.ID+"_") {
			return true
		}
	}
	return false
}

func indexOf(petitions []models.Petition, id string) int {
	for i, p := range petitions {
		if p.ID == id {
			return i
		}
	}
	return -1
}
