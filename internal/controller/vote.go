package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/middleware"
	"github.com/saxenaaman628/decentralizeit/internal/models"
	"github.com/saxenaaman628/decentralizeit/internal/outcome"
)

var noAdvisor = apperr.ErrAdvisorUnavailable.WithMessage("categorization is not configured, please select a category manually")

type OutcomeController struct {
	ledger *outcome.Ledger
}

func NewOutcomeController(ledger *outcome.Ledger) *OutcomeController {
	return &OutcomeController{ledger: ledger}
}

type proposePayload struct {
	Description string `json:"description" binding:"required"`
}

// VotePayload is the expected vote request
type VotePayload struct {
	Vote models.VoteDirection `json:"vote" binding:"required"`
}

// ListOutcomesHandler handles GET /api/petitions/:id/outcomes
func (oc *OutcomeController) ListOutcomesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"outcomes": oc.ledger.List(c.Param("id"))})
}

// GetOutcomeHandler handles GET /api/outcomes/:id and reports the caller's vote.
func (oc *OutcomeController) GetOutcomeHandler(c *gin.Context) {
	o, err := oc.ledger.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"outcome": o, "myVote": nil}
	if sess := middleware.SessionFrom(c); sess.Authenticated() {
		dir, voted, err := oc.ledger.VoteOf(c.Request.Context(), o.ID, sess.UserID())
		if err != nil {
			respondError(c, err)
			return
		}
		if voted {
			response["myVote"] = dir
		}
	}
	c.JSON(http.StatusOK, response)
}

// ProposeOutcomeHandler handles POST /api/petitions/:id/outcomes
func (oc *OutcomeController) ProposeOutcomeHandler(c *gin.Context) {
	var payload proposePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}

	o, err := oc.ledger.Propose(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"), payload.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Outcome proposed", "outcome": o})
}

// VoteHandler handles POST /api/outcomes/:id/vote
func (oc *OutcomeController) VoteHandler(c *gin.Context) {
	var payload VotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}

	res, err := oc.ledger.Vote(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"), payload.Vote)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Vote recorded successfully",
		"outcome":   res.Outcome,
		"receiptId": res.ReceiptID,
	})
}
