package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// EnsureGame resolves the catalog entry for a normalized game name, creating
// it when absent. The insert-or-ignore followed by a select is deliberately
// race-tolerant: a concurrent duplicate insert is swallowed by the unique
// constraint on name and the select always finds the canonical row.
func (s *Store) EnsureGame(ctx context.Context, name string) (int64, error) {
	if _, err := s.execWithRetry(ctx, `INSERT OR IGNORE INTO games (name) VALUES (?)`, name); err != nil {
		return 0, fmt.Errorf("ensure game: %w", err)
	}

	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT id FROM games WHERE name = ?`, name)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve game id: %w", err)
	}
	return id, nil
}

// GameByID fetches a catalog entry by identifier. Returns nil when absent.
func (s *Store) GameByID(ctx context.Context, id int64) (*Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM games WHERE id = ?`, id)
	var game Game
	if err := row.Scan(&game.ID, &game.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return &game, nil
}

// GameByName fetches a catalog entry by its exact stored name. Returns nil
// when absent.
func (s *Store) GameByName(ctx context.Context, name string) (*Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM games WHERE name = ?`, name)
	var game Game
	if err := row.Scan(&game.ID, &game.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get game by name: %w", err)
	}
	return &game, nil
}

// ListGames returns every catalog entry ordered by name.
func (s *Store) ListGames(ctx context.Context) ([]*Game, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM games ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		var game Game
		if err := rows.Scan(&game.ID, &game.Name); err != nil {
			return nil, err
		}
		games = append(games, &game)
	}
	return games, rows.Err()
}

// RatingsByGame returns, for every game with at least one review, the stored
// rating histories of all its reviews. Callers reduce the histories to
// popularity figures; the text column is never aggregated in SQL.
func (s *Store) RatingsByGame(ctx context.Context) ([]GameRatings, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT g.id, g.name, r.rating
         FROM reviews r
         JOIN games g ON g.id = r.game_id
         ORDER BY g.id, r.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ratings by game: %w", err)
	}
	defer rows.Close()

	var (
		result  []GameRatings
		current *GameRatings
	)
	for rows.Next() {
		var (
			gameID int64
			name   string
			rating sql.NullString
		)
		if err := rows.Scan(&gameID, &name, &rating); err != nil {
			return nil, err
		}
		if current == nil || current.GameID != gameID {
			result = append(result, GameRatings{GameID: gameID, Name: name})
			current = &result[len(result)-1]
		}
		current.Ratings = append(current.Ratings, rating.String)
	}
	return result, rows.Err()
}
