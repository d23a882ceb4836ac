package catalog

// ReviewPage is one page of the review carousel.
type ReviewPage struct {
	Reviews []Review `json:"reviews"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
	Next    int      `json:"next"`
	Prev    int      `json:"prev"`
}

// DefaultReviewsPerPage matches the three-card carousel.
const DefaultReviewsPerPage = 3

// PageReviews slices reviews for the given zero-based page. Out-of-range pages
// are clamped; Next and Prev wrap around so the carousel can loop.
func PageReviews(reviews []Review, page, perPage int) ReviewPage {
	if perPage <= 0 {
		perPage = DefaultReviewsPerPage
	}
	pages := (len(reviews) + perPage - 1) / perPage
	if pages == 0 {
		return ReviewPage{Reviews: []Review{}, Pages: 0}
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}

	start := page * perPage
	end := start + perPage
	if end > len(reviews) {
		end = len(reviews)
	}
	return ReviewPage{
		Reviews: reviews[start:end],
		Page:    page,
		Pages:   pages,
		Next:    (page + 1) % pages,
		Prev:    (page - 1 + pages) % pages,
	}
}
