package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-travel-verifier/models"

	"github.com/stretchr/testify/require"
)

func sampleAuditRecord() models.AuditRecord {
	return models.AuditRecord{
		RecordId:       "record-1",
		Name:           "Ravi Kumar Sharma",
		InputDOB:       "1990-05-12",
		PassportNumber: "A1234567",
		IsValid:        true,
		Expiry:         "2030-01-01",
		FrontImage:     "https://images.example/front.jpg",
		BackImage:      "https://images.example/back.jpg",
		RecordedAt:     time.Now().UTC(),
	}
}

func TestWebhookAuditSinkAcceptsNonEmptyBody(t *testing.T) {
	var received models.AuditRecord
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, err := w.Write([]byte("ok"))
		require.NoError(t, err)
	}))
	defer server.Close()

	sink := NewWebhookAuditSink(server.URL)
	require.NoError(t, sink.Record(sampleAuditRecord()))
	require.Equal(t, "record-1", received.RecordId)
	require.Equal(t, "A1234567", received.PassportNumber)
}

func TestWebhookAuditSinkRejectsEmptyBody(t *testing.T) {
	// The sink's webhook answers 200 even when the write failed; an empty
	// body is the only failure signal.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewWebhookAuditSink(server.URL)
	err := sink.Record(sampleAuditRecord())
	require.ErrorIs(t, err, ErrUpstream)
}

func TestWebhookAuditSinkRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := NewWebhookAuditSink(server.URL)
	err := sink.Record(sampleAuditRecord())
	require.ErrorIs(t, err, ErrUpstream)
}
