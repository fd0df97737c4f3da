package petition

import (
	"strings"

	"github.com/saxenaaman628/decentralizeit/internal/models"
)

type Tab string

const (
	TabAll      Tab = "all"
	TabDraft    Tab = "draft"
	TabLive     Tab = "live"
	TabVoting   Tab = "voting"
	TabArchived Tab = "archived"
)

// Criteria selects petitions on the dashboard. Empty sets match everything.
type Criteria struct {
	Search     string
	Categories []models.Category
	Statuses   []models.Status
	Tab        Tab
}

// Filter returns the petitions matching c, preserving input order. It does not
// modify its input.
func Filter(petitions []models.Petition, c Criteria) []models.Petition {
	search := strings.ToLower(c.Search)
	categories := make(map[models.Category]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		categories[cat] = struct{}{}
	}
	statuses := make(map[models.Status]struct{}, len(c.Statuses))
	for _, st := range c.Statuses {
		statuses[st] = struct{}{}
	}

	out := make([]models.Petition, 0, len(petitions))
	for _, p := range petitions {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		if len(statuses) > 0 {
			if _, ok := statuses[p.Status]; !ok {
				continue
			}
		}
		if !c.Tab.matches(p.Status) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Unknown tabs behave like TabAll.
func (t Tab) matches(s models.Status) bool {
	switch t {
	case TabDraft:
		return s == models.StatusDraft
	case TabLive:
		return s == models.StatusLive
	case TabVoting:
		return s == models.StatusVoting
	case TabArchived:
		return s == models.StatusArchived || s == models.StatusClosed
	}
	return true
}

// CategoriesOf returns the distinct categories in first-seen order.
func CategoriesOf(petitions []models.Petition) []models.Category {
	seen := make(map[models.Category]struct{})
	out := []models.Category{}
	for _, p := range petitions {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// StatusesOf returns the distinct statuses in first-seen order.
func StatusesOf(petitions []models.Petition) []models.Status {
	seen := make(map[models.Status]struct{})
	out := []models.Status{}
	for _, p := range petitions {
		if _, ok := seen[p.Status]; ok {
			continue
		}
		seen[p.Status] = struct{}{}
		out = append(out, p.Status)
	}
	return out
}
