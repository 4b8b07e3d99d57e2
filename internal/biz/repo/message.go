package repo

import (
	"context"

	"github.com/wenlabs/wentracker/internal/biz/domain"
)

// MessageSource is the message-source capability.
// One call fetches exactly one page from the remote conversation API;
// pagination policy lives in the fetch usecase, not here.
type MessageSource interface {
	// FetchPage performs a single authenticated GET against url and
	// decodes the page into a batch. An absent message list in the
	// response is returned as an empty batch, not an error.
	FetchPage(ctx context.Context, url string) (*domain.FetchBatch, error)
}
