package book

// AverageRating computes the mean rating of a review set.
// An empty set yields 0, which sorts below every rated book.
func AverageRating(reviews []ReviewItem) float64 {
	if len(reviews) == 0 {
		return 0
	}

	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}

	return float64(sum) / float64(len(reviews))
}

// aggregate fills in the derived AverageRating for every book in the slice.
// It runs after filtering and before any rating-ordered sort, so the sort
// key always exists by the time it is compared.
func aggregate(books []*Book) {
	for _, b := range books {
		b.AverageRating = AverageRating(b.Reviews)
	}
}
