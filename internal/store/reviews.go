package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertReview creates a new review row. A second review for the same
// (user, game) pair violates the unique constraint on that pair; callers
// detect it with IsConstraintViolation.
func (s *Store) InsertReview(ctx context.Context, review *Review) (*Review, error) {
	if review == nil {
		return nil, errors.New("review is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO reviews (user_id, game_id, rating, comment, source, price, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		review.UserID,
		review.GameID,
		review.Rating,
		nullableString(review.Comment),
		nullableString(review.Source),
		nullableString(review.Price),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	inserted := *review
	inserted.ID = id
	inserted.CreatedAt = now
	inserted.UpdatedAt = now
	return &inserted, nil
}

// ReviewByUserAndGame fetches the single review a user holds for a game.
// Returns nil when none exists.
func (s *Store) ReviewByUserAndGame(ctx context.Context, userID, gameID int64) (*Review, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id = ? AND game_id = ?`,
		userID,
		gameID,
	)
	review, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// ReviewByIDForUser fetches a review scoped to its owning user. A review that
// does not exist and a review owned by someone else both come back nil; the
// distinction is deliberately not observable.
func (s *Store) ReviewByIDForUser(ctx context.Context, reviewID, userID int64) (*Review, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ? AND user_id = ?`,
		reviewID,
		userID,
	)
	review, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get review for user: %w", err)
	}
	return review, nil
}

// UpdateReview persists new field values for an existing review row.
func (s *Store) UpdateReview(ctx context.Context, review *Review) error {
	if review == nil {
		return errors.New("review is nil")
	}
	review.UpdatedAt = time.Now().UTC()
	_, err := s.execWithRetry(
		ctx,
		`UPDATE reviews
         SET rating = ?, comment = ?, source = ?, price = ?, updated_at = ?
         WHERE id = ?`,
		review.Rating,
		nullableString(review.Comment),
		nullableString(review.Source),
		nullableString(review.Price),
		review.UpdatedAt.Format(time.RFC3339Nano),
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// DeleteReviewOwned removes a review only when it belongs to userID. Reports
// whether a row was deleted.
func (s *Store) DeleteReviewOwned(ctx context.Context, reviewID, userID int64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM reviews WHERE id = ? AND user_id = ?`,
		reviewID,
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ReviewsByUser returns a user's reviews newest first, with game names joined
// in.
func (s *Store) ReviewsByUser(ctx context.Context, userID int64) ([]*Review, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT r.id, r.user_id, r.game_id, r.rating, r.comment, r.source, r.price,
                r.created_at, r.updated_at, g.name
         FROM reviews r
         JOIN games g ON g.id = r.game_id
         WHERE r.user_id = ?
         ORDER BY r.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var (
			review     Review
			rating     sql.NullString
			comment    sql.NullString
			source     sql.NullString
			price      sql.NullString
			createdRaw sql.NullString
			updatedRaw sql.NullString
		)
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.GameID,
			&rating,
			&comment,
			&source,
			&price,
			&createdRaw,
			&updatedRaw,
			&review.GameName,
		); err != nil {
			return nil, err
		}
		review.Rating = rating.String
		review.Comment = comment.String
		review.Source = source.String
		review.Price = price.String
		if created, err := parseTimeString(createdRaw.String); err == nil {
			review.CreatedAt = created
		}
		if updated, err := parseTimeString(updatedRaw.String); err == nil {
			review.UpdatedAt = updated
		}
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}
