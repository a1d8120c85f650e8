package services

import (
	"context"
	"time"
)

// MaxPageSize is the largest page search.list will serve.
const MaxPageSize = 50

type SearchPageRequest struct {
	Query          string
	Order          string
	Region         string
	PublishedAfter time.Time
	PageSize       int
	PageToken      string
}

type SearchPage struct {
	IDs           []string
	NextPageToken string
}

// SearchPageFetcher fetches a single page of search results.
type SearchPageFetcher interface {
	SearchPage(ctx context.Context, req SearchPageRequest) (SearchPage, error)
}

// Paginate walks search pages until target ids are collected, the upstream
// stops returning a continuation token, or a page comes back empty. Each page
// asks for at most pageSize ids and never more than are still missing.
//
// Upstream order is preserved and duplicates across pages are kept; callers
// dedupe. The first failed page aborts the walk.
func Paginate(ctx context.Context, fetcher SearchPageFetcher, base SearchPageRequest, target, pageSize int) ([]string, error) {
	if target <= 0 {
		return []string{}, nil
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	ids := make([]string, 0, target)
	token := ""
	for len(ids) < target {
		req := base
		req.PageSize = min(pageSize, target-len(ids))
		req.PageToken = token

		page, err := fetcher.SearchPage(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(page.IDs) == 0 {
			break
		}

		ids = append(ids, page.IDs...)
		token = page.NextPageToken
		if token == "" {
			break
		}
	}

	if len(ids) > target {
		ids = ids[:target]
	}
	return ids, nil
}

// dedupe keeps the first occurrence of every id.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
