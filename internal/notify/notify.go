// Package notify delivers auto-apply run summaries to a configured webhook
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/oluwadami/jobpilot/pkg/models"
	"go.uber.org/zap"
)

// Webhook posts run summaries as JSON to a single endpoint. A Webhook with
// an empty URL is a no-op sender.
type Webhook struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

type summaryPayload struct {
	UserID         string                   `json:"user_id"`
	SentAt         time.Time                `json:"sent_at"`
	AutoApplied    int                      `json:"auto_applied"`
	ManualRequired int                      `json:"manual_required"`
	Failed         int                      `json:"failed"`
	Results        []models.AutoApplyResult `json:"results"`
}

func NewWebhook(url string, httpClient *http.Client, logger *zap.Logger) *Webhook {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Webhook{
		url:        url,
		httpClient: httpClient,
		logger:     logger,
	}
}

// SendAutoApplySummary posts the run's dispositions to the webhook
func (w *Webhook) SendAutoApplySummary(ctx context.Context, userID string, results []models.AutoApplyResult) error {
	if w.url == "" {
		w.logger.Debug("no webhook configured, skipping notification")
		return nil
	}

	payload := summaryPayload{
		UserID:  userID,
		SentAt:  time.Now().UTC(),
		Results: results,
	}
	for _, r := range results {
		switch r.Status {
		case models.StatusAutoApplied:
			payload.AutoApplied++
		case models.StatusManualRequired:
			payload.ManualRequired++
		case models.StatusFailed:
			payload.Failed++
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}

	w.logger.Info("notification sent",
		zap.String("user_id", userID),
		zap.Int("results", len(results)),
	)
	return nil
}
