// Package apperr defines the user-facing error taxonomy shared by the
// petition repository, the outcome ledger and the session provider.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindPrecondition
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindAdvisor
	KindStorage
)

type DomainError struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on Code so wrapped copies with a different message still compare equal.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// WithMessage returns a copy carrying a more specific message.
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Status:  e.Status,
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

func domainError(kind Kind, status int, code, message string) *DomainError {
	return &DomainError{Kind: kind, Status: status, Code: code, Message: message}
}

var (
	ErrNotAuthenticated   = domainError(KindUnauthorized, http.StatusUnauthorized, "not_authenticated", "please log in to continue")
	ErrNotCreator         = domainError(KindForbidden, http.StatusForbidden, "not_creator", "only the petition creator can do this")
	ErrPetitionNotFound   = domainError(KindNotFound, http.StatusNotFound, "petition_not_found", "this petition may have been removed or does not exist")
	ErrOutcomeNotFound    = domainError(KindNotFound, http.StatusNotFound, "outcome_not_found", "outcome not found")
	ErrAlreadySigned      = domainError(KindPrecondition, http.StatusConflict, "already_signed", "your signature is already recorded for this petition")
	ErrAlreadyVoted       = domainError(KindPrecondition, http.StatusConflict, "already_voted", "your vote is already recorded for this outcome")
	ErrNotLive            = domainError(KindPrecondition, http.StatusConflict, "not_live", "signatures are only accepted while the petition is live")
	ErrProposalsClosed    = domainError(KindPrecondition, http.StatusConflict, "proposals_closed", "outcomes can only be proposed while the petition is live or voting")
	ErrVotingClosed       = domainError(KindPrecondition, http.StatusConflict, "voting_closed", "votes are only accepted while the petition is in voting")
	ErrInvalidTransition  = domainError(KindPrecondition, http.StatusConflict, "invalid_transition", "status change not allowed")
	ErrOutcomeTooShort    = domainError(KindValidation, http.StatusBadRequest, "outcome_too_short", "outcome description must be at least 10 characters")
	ErrInvalidPetition    = domainError(KindValidation, http.StatusBadRequest, "invalid_petition", "petition is invalid")
	ErrInvalidVote        = domainError(KindValidation, http.StatusBadRequest, "invalid_vote", "vote must be 'for' or 'against'")
	ErrInvalidCredentials = domainError(KindValidation, http.StatusBadRequest, "invalid_credentials", "email and name are required")
	ErrAdvisorInput       = domainError(KindValidation, http.StatusBadRequest, "advisor_input", "provide a title and a description of at least 20 characters to categorize")
	ErrAdvisorUnavailable = domainError(KindAdvisor, http.StatusServiceUnavailable, "advisor_unavailable", "could not categorize automatically, please select a category manually")
	ErrStorage            = domainError(KindStorage, http.StatusInternalServerError, "storage_error", "could not save to storage")
)

// StatusOf returns the HTTP status for err, 500 for anything outside the taxonomy.
func StatusOf(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Status
	}
	return http.StatusInternalServerError
}

// KindOf returns the kind of err, or 0 when err is not a DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
