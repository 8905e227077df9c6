package review

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"gameboxd/internal/logging"
	"gameboxd/internal/store"
)

const (
	ratingSeparator  = ", "
	commentSeparator = " , "
)

// Service implements review submission, merging, and owner-scoped edits.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// NewService wires a review service over the given store.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:  st,
		logger: logging.NewComponentLogger(logger, "review"),
	}
}

// Submission carries one review submission. OnSale guards the price field:
// a sale price never replaces a previously recorded normal price.
type Submission struct {
	GameName string
	Rating   string
	Comment  string
	Source   string
	Price    string
	OnSale   bool
}

// Submit records a new review or merges into the user's existing review for
// the same game. Validation failures reject the submission before any storage
// mutation.
func (s *Service) Submit(ctx context.Context, userID int64, sub Submission) (*store.Review, error) {
	name, err := NormalizeGameName(sub.GameName)
	if err != nil {
		return nil, err
	}
	if err := validateRating(sub.Rating); err != nil {
		return nil, err
	}

	gameID, err := s.store.EnsureGame(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog entry: %w", err)
	}

	existing, err := s.store.ReviewByUserAndGame(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		inserted, err := s.store.InsertReview(ctx, &store.Review{
			UserID:  userID,
			GameID:  gameID,
			Rating:  strings.TrimSpace(sub.Rating),
			Comment: strings.TrimSpace(sub.Comment),
			Source:  strings.TrimSpace(sub.Source),
			Price:   strings.TrimSpace(sub.Price),
		})
		if err == nil {
			s.logger.Info("review created",
				logging.Int64("user_id", userID),
				logging.String("game", name))
			return inserted, nil
		}
		if !store.IsConstraintViolation(err) {
			return nil, err
		}
		// Lost an insert race against a concurrent submission for the same
		// (user, game); the winner's row now exists, so merge into it.
		existing, err = s.store.ReviewByUserAndGame(ctx, userID, gameID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrAlreadyReviewed
		}
	}

	existing.Rating = joinHistory(existing.Rating, sub.Rating, ratingSeparator)
	existing.Comment = joinHistory(existing.Comment, sub.Comment, commentSeparator)
	existing.Source = strings.TrimSpace(sub.Source)
	if !sub.OnSale {
		existing.Price = strings.TrimSpace(sub.Price)
	}
	if err := s.store.UpdateReview(ctx, existing); err != nil {
		return nil, err
	}
	s.logger.Info("review merged",
		logging.Int64("user_id", userID),
		logging.String("game", name))
	return existing, nil
}

// Edit carries replacement values for an existing review. Unlike Submit, an
// edit overwrites fields instead of accumulating them.
type Edit struct {
	Rating  string
	Comment string
	Source  string
	Price   string
}

// EditReview replaces the fields of a review the user owns. Returns
// ErrNotFound when the review does not exist or belongs to someone else.
func (s *Service) EditReview(ctx context.Context, userID, reviewID int64, edit Edit) (*store.Review, error) {
	if err := validateRating(edit.Rating); err != nil {
		return nil, err
	}

	existing, err := s.store.ReviewByIDForUser(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	existing.Rating = strings.TrimSpace(edit.Rating)
	existing.Comment = strings.TrimSpace(edit.Comment)
	existing.Source = strings.TrimSpace(edit.Source)
	existing.Price = strings.TrimSpace(edit.Price)
	if err := s.store.UpdateReview(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a review the user owns. Returns ErrNotFound when the review
// does not exist or belongs to someone else.
func (s *Service) Delete(ctx context.Context, userID, reviewID int64) error {
	deleted, err := s.store.DeleteReviewOwned(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("review deleted",
		logging.Int64("user_id", userID),
		logging.Int64("review_id", reviewID))
	return nil
}

// ListForUser returns the user's reviews newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*store.Review, error) {
	return s.store.ReviewsByUser(ctx, userID)
}

// Get fetches one review scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, reviewID int64) (*store.Review, error) {
	existing, err := s.store.ReviewByIDForUser(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	return existing, nil
}

// NormalizeGameName trims and lower-cases a raw game name into the canonical
// catalog key. Returns ErrEmptyGameName when nothing remains after trimming.
func NormalizeGameName(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", ErrEmptyGameName
	}
	return name, nil
}

func validateRating(raw string) error {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return ErrInvalidRating
	}
	// ParseFloat accepts "NaN", which slips past range comparisons.
	if math.IsNaN(value) || value < 0 || value > 10 {
		return ErrInvalidRating
	}
	return nil
}

// joinHistory appends the newest value to the accumulated history. An empty
// side yields the other side unchanged, so no dangling delimiter appears and
// separator characters already inside the history survive.
func joinHistory(old, next, sep string) string {
	next = strings.TrimSpace(next)
	if old == "" {
		return next
	}
	if next == "" {
		return old
	}
	return old + sep + next
}
