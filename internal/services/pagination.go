package services

import "astrocrm/pkg/utils"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// normalizePage fills in defaults for omitted values and rejects out-of-range ones.
func normalizePage(page, limit int) (int, int, error) {
	if page < 0 {
		return 0, 0, utils.ErrInvalidPage
	}
	if limit < 0 || limit > maxPageSize {
		return 0, 0, utils.ErrInvalidPageSize
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	return page, limit, nil
}
