package farcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/biz/domain"
)

const defaultTimeout = 30 * time.Second

// Client fetches direct-cast conversation pages from the Farcaster API
// using a bearer token as an opaque credential
type Client struct {
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new Farcaster API client
func NewClient(token string, log zerolog.Logger) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log.With().Str("component", "farcaster").Logger(),
	}
}

// wire shape of one conversation-messages page
type wirePage struct {
	Result *struct {
		Messages []wireMessage `json:"messages"`
	} `json:"result"`
	Next *struct {
		Cursor string `json:"cursor"`
	} `json:"next"`
}

type wireMessage struct {
	MessageID       string      `json:"messageId"`
	Type            string      `json:"type"`
	Message         string      `json:"message"`
	ServerTimestamp int64       `json:"serverTimestamp"`
	SenderFid       json.Number `json:"senderFid"`
	SenderContext   *struct {
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
	} `json:"senderContext"`
}

func (w *wireMessage) toDomain() domain.Message {
	msg := domain.Message{
		ID:                w.MessageID,
		Kind:              domain.KindOther,
		Body:              w.Message,
		TimestampMs:       w.ServerTimestamp,
		SenderID:          w.SenderFid.String(),
		SenderDisplayName: "Unknown",
		SenderUsername:    "unknown",
	}
	if w.Type == "text" {
		msg.Kind = domain.KindText
	}
	if w.SenderContext != nil {
		if w.SenderContext.DisplayName != "" {
			msg.SenderDisplayName = w.SenderContext.DisplayName
		}
		if w.SenderContext.Username != "" {
			msg.SenderUsername = w.SenderContext.Username
		}
	}
	return msg
}

// FetchPage performs one authenticated GET and decodes the page.
// A response without result.messages means "no more data" and comes
// back as an empty batch with no cursor, not as an error.
func (c *Client) FetchPage(ctx context.Context, url string) (*domain.FetchBatch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var page wirePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}

	batch := &domain.FetchBatch{}
	if page.Result == nil || page.Result.Messages == nil {
		c.log.Debug().Str("url", url).Msg("response carries no messages, treating as end of data")
		return batch, nil
	}

	for i := range page.Result.Messages {
		batch.Messages = append(batch.Messages, page.Result.Messages[i].toDomain())
	}
	if page.Next != nil {
		batch.NextCursor = page.Next.Cursor
	}

	c.log.Debug().Int("messages", len(batch.Messages)).Bool("has_cursor", batch.NextCursor != "").Msg("fetched page")
	return batch, nil
}
