package models

import "time"

type Status string

const (
	StatusDraft    Status = "Draft"
	StatusLive     Status = "Live"
	StatusVoting   Status = "Voting"
	StatusArchived Status = "Archived"
	StatusClosed   Status = "Closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusLive, StatusVoting, StatusArchived, StatusClosed:
		return true
	}
	return false
}

type Category string

const (
	CategoryEnvironment   Category = "environment"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategorySocialJustice Category = "social justice"
	CategoryAnimalWelfare Category = "animal welfare"
	CategoryPolitics      Category = "politics"
	CategoryTechnology    Category = "technology"
	CategoryOther         Category = "other"
)

// Categories lists the accepted categories in display order.
var Categories = []Category{
	CategoryEnvironment,
	CategoryHealth,
	CategoryEducation,
	CategorySocialJustice,
	CategoryAnimalWelfare,
	CategoryPolitics,
	CategoryTechnology,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Petition struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	CreatorID          string         `json:"creatorId"`
	CreatorName        string         `json:"creatorName"`
	Status             Status         `json:"status"`
	Category           Category       `json:"category"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	Signatures         int            `json:"signatures"`
	ImageURL           string         `json:"imageUrl"`
	SignaturesLastHour *int           `json:"signaturesLastHour,omitempty"`
	GeoBreakdown       map[string]int `json:"geoBreakdown"`
}

// PetitionDraft carries the user-supplied fields of a new petition.
type PetitionDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}
