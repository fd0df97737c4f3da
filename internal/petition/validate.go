package petition

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/models"
)

const (
	minTitleLen       = 5
	maxTitleLen       = 100
	minDescriptionLen = 20
	maxDescriptionLen = 2000
)

// ValidateDraft checks user input for a new petition.
func ValidateDraft(d models.PetitionDraft) error {
	title := utf8.RuneCountInString(strings.TrimSpace(d.Title))
	switch {
	case title < minTitleLen:
		return apperr.ErrInvalidPetition.WithMessage("title must be at least %d characters", minTitleLen)
	case title > maxTitleLen:
		return apperr.ErrInvalidPetition.WithMessage("title must be %d characters or less", maxTitleLen)
	}

	desc := utf8.RuneCountInString(strings.TrimSpace(d.Description))
	switch {
	case desc < minDescriptionLen:
		return apperr.ErrInvalidPetition.WithMessage("description must be at least %d characters", minDescriptionLen)
	case desc > maxDescriptionLen:
		return apperr.ErrInvalidPetition.WithMessage("description must be %d characters or less", maxDescriptionLen)
	}

	if d.Category == "" {
		return apperr.ErrInvalidPetition.WithMessage("please select a category")
	}
	if !d.Category.Valid() {
		return apperr.ErrInvalidPetition.WithMessage("unknown category %q", d.Category)
	}
	return nil
}

// validateStored is the schema check applied to every persisted petition.
func validateStored(p models.Petition) error {
	switch {
	case p.ID == "":
		return errors.New("petition id missing")
	case p.Signatures < 0:
		return errors.New("negative signature count")
	case !p.Status.Valid():
		return errors.New("unknown status " + string(p.Status))
	case !p.Category.Valid():
		return errors.New("unknown category " + string(p.Category))
	}
	return nil
}
