package review

import "errors"

var (
	// ErrInvalidRating marks a rating that is not a number in [0, 10].
	ErrInvalidRating = errors.New("rating must be a number between 0 and 10")
	// ErrEmptyGameName marks a submission whose game name is blank after
	// trimming.
	ErrEmptyGameName = errors.New("game name must not be empty")
	// ErrNotFound covers both a missing review and one owned by another
	// user. The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("review not found")
	// ErrAlreadyReviewed surfaces a unique constraint hit on insert that
	// could not be resolved by merging into the existing review.
	ErrAlreadyReviewed = errors.New("game already reviewed by this user")
)
