package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/decentralizeit/internal/advisor"
	"github.com/saxenaaman628/decentralizeit/internal/middleware"
	"github.com/saxenaaman628/decentralizeit/internal/models"
	"github.com/saxenaaman628/decentralizeit/internal/outcome"
	"github.com/saxenaaman628/decentralizeit/internal/petition"
)

type PetitionController struct {
	repo    *petition.Repository
	ledger  *outcome.Ledger
	advisor advisor.Advisor
}

func NewPetitionController(repo *petition.Repository, ledger *outcome.Ledger, adv advisor.Advisor) *PetitionController {
	return &PetitionController{repo: repo, ledger: ledger, advisor: adv}
}

type createPetitionInput struct {
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description" binding:"required"`
	Category       models.Category `json:"category"`
	AutoCategorize bool            `json:"autoCategorize"`
}

type categorizeInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type statusInput struct {
	Status models.Status `json:"status" binding:"required"`
}

// ListPetitionsHandler handles GET /api/petitions?search=&category=&status=&tab=
func (pc *PetitionController) ListPetitionsHandler(c *gin.Context) {
	criteria := petition.Criteria{
		Search: c.Query("search"),
		Tab:    petition.Tab(c.DefaultQuery("tab", string(petition.TabAll))),
	}
	for _, cat := range c.QueryArray("category") {
		criteria.Categories = append(criteria.Categories, models.Category(cat))
	}
	for _, st := range c.QueryArray("status") {
		criteria.Statuses = append(criteria.Statuses, models.Status(st))
	}

	matched, err := pc.repo.Search(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	// Facets describe the whole collection so the filter menus stay stable.
	all, err := pc.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"petitions":  matched,
		"categories": petition.CategoriesOf(all),
		"statuses":   petition.StatusesOf(all),
	})
}

// CreatePetitionHandler handles POST /api/petitions. With autoCategorize the
// advisor's suggestion replaces the chosen category; if the advisor fails the
// manual category is used and a notice is returned.
func (pc *PetitionController) CreatePetitionHandler(c *gin.Context) {
	var input createPetitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	draft := models.PetitionDraft{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
	}

	response := gin.H{}
	switch {
	case !input.AutoCategorize:
	case pc.advisor == nil:
		response["notice"] = noAdvisor.Message
	default:
		suggestion, err := pc.advisor.Categorize(c.Request.Context(), input.Title, input.Description)
		if err != nil {
			response["notice"] = noticeOf(err)
		} else {
			draft.Category = suggestion.Category
			response["suggestion"] = suggestion
		}
	}

	p, err := pc.repo.Create(c.Request.Context(), middleware.SessionFrom(c), draft)
	if err != nil {
		respondError(c, err)
		return
	}

	response["message"] = "Petition recorded as a draft"
	response["petition"] = p
	c.JSON(http.StatusCreated, response)
}

// CategorizeHandler handles POST /api/categorize
func (pc *PetitionController) CategorizeHandler(c *gin.Context) {
	var input categorizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if pc.advisor == nil {
		respondError(c, noAdvisor)
		return
	}

	res, err := pc.advisor.Categorize(c.Request.Context(), input.Title, input.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// GetPetitionHandler handles GET /api/petitions/:id
func (pc *PetitionController) GetPetitionHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sess := middleware.SessionFrom(c)

	p, err := pc.repo.FindByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	receipt, err := pc.repo.SignatureReceipt(ctx, p.ID, sess.UserID())
	if err != nil {
		respondError(c, err)
		return
	}

	isCreator := sess.Authenticated() && sess.UserID() == p.CreatorID
	next := []models.Status{}
	if isCreator {
		next = petition.NextStatuses(p.Status)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":         p,
		"signature":    receipt,
		"outcomes":     pc.ledger.List(p.ID),
		"isCreator":    isCreator,
		"nextStatuses": next,
	})
}

// SignPetitionHandler handles POST /api/petitions/:id/sign
func (pc *PetitionController) SignPetitionHandler(c *gin.Context) {
	res, err := pc.repo.Sign(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Signature recorded",
		"petition": res.Petition,
		"txId":     res.TxID,
	})
}

// UpdateStatusHandler handles POST /api/petitions/:id/status
func (pc *PetitionController) UpdateStatusHandler(c *gin.Context) {
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	p, err := pc.repo.UpdateStatus(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "petition": p})
}

// DeletePetitionHandler handles DELETE /api/petitions/:id
func (pc *PetitionController) DeletePetitionHandler(c *gin.Context) {
	if err := pc.repo.Delete(c.Request.Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Petition burned"})
}

// StaleFlagsHandler handles GET /api/maintenance/stale-flags
func (pc *PetitionController) StaleFlagsHandler(c *gin.Context) {
	keys, err := pc.repo.StaleFlags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys, "count": len(keys)})
}
