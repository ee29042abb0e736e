package usecase

const (
	defaultAdminPageSize = 20
	maxPageSize          = 100
)

// normalizePage clamps page and page size into sane bounds.
func normalizePage(page, perPage, fallback int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = fallback
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}
	return page, perPage
}
