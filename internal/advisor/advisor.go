// Package advisor asks a hosted categorization flow for a petition category.
// The flow owns the prompt; this package only speaks its typed contract.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/logger"
	"github.com/saxenaaman628/decentralizeit/internal/models"
)

const minDescriptionLen = 20

// Result is the category suggestion with confidence in [0,1].
type Result struct {
	Category   models.Category `json:"category"`
	Confidence float64         `json:"confidence"`
}

type Advisor interface {
	Categorize(ctx context.Context, title, description string) (Result, error)
}

type flowInput struct {
	PetitionTitle       string `json:"petitionTitle"`
	PetitionDescription string `json:"petitionDescription"`
}

type flowRequest struct {
	Data  flowInput `json:"data"`
	Model string    `json:"model,omitempty"`
}

type flowResponse struct {
	Result *Result `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client posts {"data": {...}} to a flow endpoint and expects {"result": {...}}.
type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
}

func NewClient(url, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: timeout},
	}
}

// CheckInput rejects requests the flow cannot answer meaningfully.
func CheckInput(title, description string) error {
	if strings.TrimSpace(title) == "" || utf8.RuneCountInString(strings.TrimSpace(description)) < minDescriptionLen {
		return apperr.ErrAdvisorInput
	}
	return nil
}

func (c *Client) Categorize(ctx context.Context, title, description string) (Result, error) {
	if err := CheckInput(title, description); err != nil {
		return Result{}, err
	}
	if c.url == "" {
		return Result{}, apperr.ErrAdvisorUnavailable.WithMessage("categorization is not configured, please select a category manually")
	}

	body, err := json.Marshal(flowRequest{
		Data:  flowInput{PetitionTitle: title, PetitionDescription: description},
		Model: c.model,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal advisor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, c.unavailable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, c.unavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, c.unavailable(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, c.unavailable(fmt.Errorf("advisor returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var out flowResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{}, c.unavailable(fmt.Errorf("decode response: %w", err))
	}
	if out.Error != nil {
		return Result{}, c.unavailable(fmt.Errorf("advisor error: %s", out.Error.Message))
	}
	if out.Result == nil {
		return Result{}, c.unavailable(fmt.Errorf("advisor response had no result"))
	}
	if err := validate(*out.Result); err != nil {
		return Result{}, c.unavailable(err)
	}

	logger.Debug("petition categorized",
		zap.String("category", string(out.Result.Category)),
		zap.Float64("confidence", out.Result.Confidence))
	return *out.Result, nil
}

func (c *Client) unavailable(err error) error {
	logger.Warn("categorization failed", zap.String("url", c.url), zap.Error(err))
	return fmt.Errorf("%w: %w", apperr.ErrAdvisorUnavailable, err)
}

func validate(r Result) error {
	if !r.Category.Valid() {
		return fmt.Errorf("advisor suggested unknown category %q", r.Category)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("advisor confidence %v outside [0,1]", r.Confidence)
	}
	return nil
}
