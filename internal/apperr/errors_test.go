package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	specific := ErrInvalidPetition.WithMessage("title must be at least %d characters", 5)

	if !errors.Is(specific, ErrInvalidPetition) {
		t.Error("expected specific error to match its base")
	}
	if errors.Is(specific, ErrOutcomeTooShort) {
		t.Error("unexpected match across codes")
	}

	wrapped := fmt.Errorf("create petition: %w", specific)
	if !errors.Is(wrapped, ErrInvalidPetition) {
		t.Error("expected wrapped error to match")
	}
}

func TestStatusAndKind(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   Kind
	}{
		{ErrAlreadySigned, http.StatusConflict, KindPrecondition},
		{ErrNotAuthenticated, http.StatusUnauthorized, KindUnauthorized},
		{fmt.Errorf("wrap: %w", ErrPetitionNotFound), http.StatusNotFound, KindNotFound},
		{errors.New("boom"), http.StatusInternalServerError, 0},
	}

	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.status {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.status)
		}
		if got := KindOf(tt.err); got != tt.kind {
			t.Errorf("KindOf(%v) = %d, want %d", tt.err, got, tt.kind)
		}
	}
}

func TestNilDomainErrorString(t *testing.T) {
	var e *DomainError
	if e.Error() != "" {
		t.Error("nil DomainError should render empty")
	}
}
