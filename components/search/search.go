package search

import (
	"context"
	"strings"

	"github.com/goliatone/go-formwidgets/pkg/choices"
)

// Search runs query against source for entity within scope. The limit is
// clamped by opts. An empty query returns nothing in EmptySearchNone mode and
// the first active items in EmptySearchTop mode.
func Search(ctx context.Context, source Source, entity choices.EntityType, scope choices.Scope, query string, limit int, opts Options) ([]choices.Item, error) {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil, nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchTop {
			return nil, nil
		}
		items, err := source.ActiveSet(ctx, entity, scope, nil)
		if err != nil {
			return nil, err
		}
		if len(items) > limit {
			items = items[:limit]
		}
		return items, nil
	}

	return source.Search(ctx, entity, scope, query, limit)
}
