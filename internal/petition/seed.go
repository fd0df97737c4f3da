package petition

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/internal/logger"
	"github.com/saxenaaman628/decentralizeit/internal/models"
)

func intPtr(n int) *int { return &n }

// DemoPetitions returns the sample collection relative to now.
func DemoPetitions(now time.Time) []models.Petition {
	day := 24 * time.Hour
	ago := func(d time.Duration) time.Time { return now.Add(-d).UTC() }

	return []models.Petition{
		{
			ID:                 "p1",
			Title:              "Protect Our Local Forests",
			Description:        "A petition to increase protection for local forest areas and prevent deforestation due to urban sprawl. We need to preserve these vital ecosystems for future generations.",
			CreatorID:          "user1",
			CreatorName:        "Alice Wonderland",
			Status:             models.StatusLive,
			Category:           models.CategoryEnvironment,
			CreatedAt:          ago(5 * day),
			UpdatedAt:          ago(2 * day),
			Signatures:         1250,
			ImageURL:           placeholderImage,
			SignaturesLastHour: intPtr(15),
			GeoBreakdown:       map[string]int{"California": 600, "New York": 300, "Texas": 150, "Other": 200},
		},
		{
			ID:                 "p2",
			Title:              "Improve School Lunch Programs",
			Description:        "This petition calls for healthier and more nutritious meal options in public school cafeterias across the state. Our children deserve better quality food to support their learning and development.",
			CreatorID:          "user2",
			CreatorName:        "Bob The Builder",
			Status:             models.StatusVoting,
			Category:           models.CategoryEducation,
			CreatedAt:          ago(10 * day),
			UpdatedAt:          ago(1 * day),
			Signatures:         3400,
			ImageURL:           placeholderImage,
			SignaturesLastHour: intPtr(5),
			GeoBreakdown:       map[string]int{"Florida": 1000, "Illinois": 800, "Ohio": 700, "Other": 900},
		},
		{
			ID:          "p3",
			Title:       "Fund Local Animal Shelters",
			Description: "Local animal shelters are struggling with overcrowding and lack of resources. Sign this petition to urge local government to increase funding and support for these vital community services.",
			CreatorID:   "user1",
			CreatorName: "Alice Wonderland",
			Status:      models.StatusDraft,
			Category:    models.CategoryAnimalWelfare,
			CreatedAt:   ago(2 * day),
			UpdatedAt:   ago(2 * day),
			Signatures:  50,
			ImageURL:    placeholderImage,
		},
		{
			ID:                 "p4",
			Title:              "Fair Wages for Gig Workers",
			Description:        "Gig economy workers often face precarious employment conditions and low pay. This petition demands fair wage standards and better protections for all gig workers.",
			CreatorID:          "user3",
			CreatorName:        "Charlie Brown",
			Status:             models.StatusLive,
			Category:           models.CategorySocialJustice,
			CreatedAt:          ago(30 * day),
			UpdatedAt:          ago(5 * day),
			Signatures:         8700,
			ImageURL:           placeholderImage,
			SignaturesLastHour: intPtr(22),
			GeoBreakdown:       map[string]int{"New York": 3000, "Washington": 2000, "Massachusetts": 1500, "Other": 2200},
		},
		{
			ID:          "p5",
			Title:       "Expand Public Access to High-Speed Internet",
			Description: "Access to reliable high-speed internet is essential in the modern world. This petition calls for government initiatives to expand broadband infrastructure to underserved rural and urban communities.",
			CreatorID:   "user2",
			CreatorName: "Bob The Builder",
			Status:      models.StatusArchived,
			Category:    models.CategoryTechnology,
			CreatedAt:   ago(100 * day),
			UpdatedAt:   ago(50 * day),
			Signatures:  15200,
			ImageURL:    placeholderImage,
		},
	}
}

// SeedDemo writes the sample collection when no petitions are stored yet.
// It reports whether anything was written.
func (r *Repository) SeedDemo(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	petitions, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	if len(petitions) > 0 {
		return false, nil
	}

	demo := DemoPetitions(r.now())
	if err := r.save(ctx, demo); err != nil {
		return false, err
	}
	logger.Info("seeded demo petitions", zap.Int("count", len(demo)))
	return true, nil
}
