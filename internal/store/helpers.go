package store

import (
	"database/sql"
	"errors"
	"time"
)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

type rowScanner interface{ Scan(dest ...any) error }

const reviewColumns = "id, user_id, game_id, rating, comment, source, price, created_at, updated_at"

func scanReview(scanner rowScanner) (*Review, error) {
	var (
		id         int64
		userID     int64
		gameID     int64
		rating     sql.NullString
		comment    sql.NullString
		source     sql.NullString
		price      sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&userID,
		&gameID,
		&rating,
		&comment,
		&source,
		&price,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	review := &Review{
		ID:      id,
		UserID:  userID,
		GameID:  gameID,
		Rating:  rating.String,
		Comment: comment.String,
		Source:  source.String,
		Price:   price.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		review.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		review.UpdatedAt = updated
	}
	return review, nil
}
