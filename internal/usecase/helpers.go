package usecase

import (
	"errors"
	"fmt"

	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"

	"github.com/google/uuid"
)

// parseID treats a malformed id like an unknown one.
func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", kind, raw, ErrNotFound)
	}
	return id, nil
}

// normalizePage fills in defaults so the response echoes what was applied.
func normalizePage(req *request.PaginatedRequest) request.PaginatedRequest {
	if req == nil {
		return request.PaginatedRequest{Page: 1, PerPage: 10}
	}
	page := *req
	if page.Page < 1 {
		page.Page = 1
	}
	page.PerPage = page.Limit()
	return page
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}

func isMissing(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
