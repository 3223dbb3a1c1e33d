package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go-travel-verifier/models"
)

// AuditSink receives a record of every passport verification attempt.
type AuditSink interface {
	Record(record models.AuditRecord) error
}

// WebhookAuditSink posts audit records to a webhook. The receiving script
// always answers 200, so success is signalled by a non-empty response
// body; an empty body means the record was not written.
type WebhookAuditSink struct {
	webhookURL string
	httpClient *http.Client
}

func NewWebhookAuditSink(webhookURL string) *WebhookAuditSink {
	return &WebhookAuditSink{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *WebhookAuditSink) Record(record models.AuditRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute audit request: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read audit response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK || len(body) == 0 {
		return fmt.Errorf("%w: audit sink rejected record %s (status %d, %d byte body)", ErrUpstream, record.RecordId, resp.StatusCode, len(body))
	}

	slog.Info("Audit record written", "record_id", record.RecordId, "is_valid", record.IsValid)
	return nil
}
