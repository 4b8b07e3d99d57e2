package farcaster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/biz/domain"
)

func TestFetchPage_DecodesPage(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{
			"result": {
				"messages": [
					{
						"messageId": "msg-1",
						"type": "text",
						"message": "wen moon",
						"serverTimestamp": 1718000000000,
						"senderFid": 12345,
						"senderContext": {"username": "alice", "displayName": "Alice"}
					},
					{
						"messageId": "msg-2",
						"type": "reaction",
						"message": "",
						"serverTimestamp": 1718000001000,
						"senderFid": "67890"
					}
				]
			},
			"next": {"cursor": "abc123"}
		}`))
	}))
	defer srv.Close()

	client := NewClient("secret-token", zerolog.Nop())
	batch, err := client.FetchPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if len(batch.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(batch.Messages))
	}
	if batch.NextCursor != "abc123" {
		t.Errorf("Expected cursor abc123, got %q", batch.NextCursor)
	}

	first := batch.Messages[0]
	if first.Kind != domain.KindText {
		t.Errorf("Expected text kind, got %v", first.Kind)
	}
	if first.SenderID != "12345" {
		t.Errorf("Expected sender 12345, got %q", first.SenderID)
	}
	if first.SenderDisplayName != "Alice" || first.SenderUsername != "alice" {
		t.Errorf("Expected sender context applied, got %q/%q", first.SenderDisplayName, first.SenderUsername)
	}

	second := batch.Messages[1]
	if second.Kind != domain.KindOther {
		t.Errorf("Expected non-text kind, got %v", second.Kind)
	}
	if second.SenderDisplayName != "Unknown" || second.SenderUsername != "unknown" {
		t.Errorf("Expected sender defaults, got %q/%q", second.SenderDisplayName, second.SenderUsername)
	}
}

func TestFetchPage_NoMessagesMeansEndOfData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {}}`))
	}))
	defer srv.Close()

	client := NewClient("token", zerolog.Nop())
	batch, err := client.FetchPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Expected no error for an empty page, got %v", err)
	}
	if len(batch.Messages) != 0 || batch.NextCursor != "" {
		t.Errorf("Expected an empty batch, got %d messages, cursor %q", len(batch.Messages), batch.NextCursor)
	}
}

func TestFetchPage_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("token", zerolog.Nop())
	_, err := client.FetchPage(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Expected an error for a 401 response")
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("Expected *TransportError, got %T", err)
	}
}

func TestFetchPage_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": `))
	}))
	defer srv.Close()

	client := NewClient("token", zerolog.Nop())
	_, err := client.FetchPage(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Expected an error for a malformed body")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("Expected *DecodeError, got %T", err)
	}
}
