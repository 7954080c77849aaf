package driving

import (
	"context"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// SearchService provides semantic search to external actors.
type SearchService interface {
	// Search returns ranked results at or above opts.Threshold.
	// An empty slice means nothing cleared the threshold.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
