package http

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/pdxfresh/checkout-service/internal/webhook"
)

// RetrySweeper runs one retry sweep over pending webhook failures.
type RetrySweeper interface {
	Run(ctx context.Context) (webhook.Summary, error)
}

type CronHandler struct {
	engine RetrySweeper
	secret string
}

func NewCronHandler(engine RetrySweeper, secret string) *CronHandler {
	return &CronHandler{
		engine: engine,
		secret: secret,
	}
}

type RetrySummaryDTO struct {
	Success      bool                   `json:"success"`
	Processed    int                    `json:"processed"`
	SuccessCount int                    `json:"successCount"`
	FailCount    int                    `json:"failCount"`
	Results      []webhook.RetryOutcome `json:"results"`
}

// GET /cron/retry-webhooks
func (h *CronHandler) RetryWebhooks(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		respondError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
		return
	}

	summary, err := h.engine.Run(r.Context())
	if err != nil {
		log.Printf("retry sweep failed: %v", err)
		respondError(w, http.StatusInternalServerError, "sweep_failed",
			"retry sweep could not run")
		return
	}

	respondJSON(w, http.StatusOK, RetrySummaryDTO{
		Success:      true,
		Processed:    summary.Processed,
		SuccessCount: summary.SuccessCount,
		FailCount:    summary.FailCount,
		Results:      summary.Results,
	})
}

func (h *CronHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}
