package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// NormalizeReport summarizes one catalog normalization pass.
type NormalizeReport struct {
	GamesRenamed      int
	GamesMerged       int
	ReviewsReassigned int
	ReviewsDeleted    int
}

// Changes reports whether the pass altered anything.
func (r NormalizeReport) Changes() int {
	return r.GamesRenamed + r.GamesMerged + r.ReviewsReassigned + r.ReviewsDeleted
}

// NormalizeCatalog lowercases every game name and collapses rows that only
// differ by case into a single keeper per name. Reviews on merged rows move to
// the keeper; when the review's owner already reviewed the keeper the duplicate
// review is deleted instead. The whole pass runs in one transaction so a
// failure leaves the catalog untouched. A second run over an already
// normalized catalog reports zero changes.
func (s *Store) NormalizeCatalog(ctx context.Context) (NormalizeReport, error) {
	var report NormalizeReport

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("begin normalize: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id, name FROM games ORDER BY id`)
	if err != nil {
		return report, fmt.Errorf("load games: %w", err)
	}
	groups := make(map[string][]Game)
	var order []string
	for rows.Next() {
		var game Game
		if err := rows.Scan(&game.ID, &game.Name); err != nil {
			rows.Close()
			return report, err
		}
		key := strings.ToLower(strings.TrimSpace(game.Name))
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], game)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return report, err
	}
	rows.Close()

	sort.Strings(order)

	for _, key := range order {
		group := groups[key]
		keeper := chooseKeeper(group, key)

		if keeper.Name != key {
			if _, err := tx.ExecContext(ctx, `UPDATE games SET name = ? WHERE id = ?`, key, keeper.ID); err != nil {
				return report, fmt.Errorf("rename game %d: %w", keeper.ID, err)
			}
			report.GamesRenamed++
		}

		for _, game := range group {
			if game.ID == keeper.ID {
				continue
			}
			reassigned, deleted, err := moveReviews(ctx, tx, game.ID, keeper.ID)
			if err != nil {
				return report, err
			}
			report.ReviewsReassigned += reassigned
			report.ReviewsDeleted += deleted

			if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, game.ID); err != nil {
				return report, fmt.Errorf("delete game %d: %w", game.ID, err)
			}
			report.GamesMerged++
		}
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit normalize: %w", err)
	}
	return report, nil
}

// chooseKeeper picks the surviving row for a group of same-name games. A row
// already carrying the lowercase name wins; otherwise the oldest row is kept
// and renamed.
func chooseKeeper(group []Game, key string) Game {
	for _, game := range group {
		if game.Name == key {
			return game
		}
	}
	return group[0]
}

func moveReviews(ctx context.Context, tx *sql.Tx, fromGameID, toGameID int64) (reassigned, deleted int, err error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, user_id FROM reviews WHERE game_id = ?`, fromGameID)
	if err != nil {
		return 0, 0, fmt.Errorf("load reviews for game %d: %w", fromGameID, err)
	}
	type reviewRef struct {
		id     int64
		userID int64
	}
	var refs []reviewRef
	for rows.Next() {
		var ref reviewRef
		if err := rows.Scan(&ref.id, &ref.userID); err != nil {
			rows.Close()
			return 0, 0, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, 0, err
	}
	rows.Close()

	for _, ref := range refs {
		var existing int
		row := tx.QueryRowContext(
			ctx,
			`SELECT COUNT(*) FROM reviews WHERE user_id = ? AND game_id = ?`,
			ref.userID,
			toGameID,
		)
		if err := row.Scan(&existing); err != nil {
			return reassigned, deleted, err
		}
		if existing > 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, ref.id); err != nil {
				return reassigned, deleted, fmt.Errorf("delete review %d: %w", ref.id, err)
			}
			deleted++
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE reviews SET game_id = ? WHERE id = ?`, toGameID, ref.id); err != nil {
			return reassigned, deleted, fmt.Errorf("reassign review %d: %w", ref.id, err)
		}
		reassigned++
	}
	return reassigned, deleted, nil
}
