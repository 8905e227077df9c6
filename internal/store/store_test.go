package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gameboxd/internal/store"
	"gameboxd/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	user, err := st.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected user ID to be assigned")
	}

	fetched, err := st.UserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("UserByUsername failed: %v", err)
	}
	if fetched == nil || fetched.ID != user.ID {
		t.Fatalf("expected to find inserted user, got %#v", fetched)
	}

	missing, err := st.UserByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("UserByUsername for missing user failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing user, got %#v", missing)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := st.CreateUser(ctx, "alice", "hash"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	_, err := st.CreateUser(ctx, "alice", "other")
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}
	if !store.IsConstraintViolation(err) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestEnsureGameIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first, err := st.EnsureGame(ctx, "celeste")
	if err != nil {
		t.Fatalf("EnsureGame failed: %v", err)
	}
	second, err := st.EnsureGame(ctx, "celeste")
	if err != nil {
		t.Fatalf("EnsureGame repeat failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected same game ID, got %d and %d", first, second)
	}

	games, err := st.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected one catalog row, got %d", len(games))
	}
}

func TestReviewUniquePerUserAndGame(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	user := testsupport.NewUser(t, st, "alice")
	gameID := testsupport.NewGame(t, st, "hades")

	testsupport.NewReview(t, st, user.ID, gameID, "8")

	_, err := st.InsertReview(context.Background(), &store.Review{
		UserID: user.ID,
		GameID: gameID,
		Rating: "9",
	})
	if err == nil {
		t.Fatal("expected second review for same game to fail")
	}
	if !store.IsConstraintViolation(err) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestUpdateReviewPersistsFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	user := testsupport.NewUser(t, st, "alice")
	gameID := testsupport.NewGame(t, st, "hades")
	review := testsupport.NewReview(t, st, user.ID, gameID, "7")

	ctx := context.Background()
	review.Rating = "7, 9"
	review.Comment = "great , even better"
	review.Source = "steam"
	review.Price = "9.99"
	if err := st.UpdateReview(ctx, review); err != nil {
		t.Fatalf("UpdateReview failed: %v", err)
	}

	fetched, err := st.ReviewByUserAndGame(ctx, user.ID, gameID)
	if err != nil {
		t.Fatalf("ReviewByUserAndGame failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected review to exist")
	}
	if fetched.Rating != "7, 9" || fetched.Comment != "great , even better" || fetched.Source != "steam" || fetched.Price != "9.99" {
		t.Fatalf("unexpected review after update: %#v", fetched)
	}
}

func TestOwnerScopedAccess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	alice := testsupport.NewUser(t, st, "alice")
	bob := testsupport.NewUser(t, st, "bob")
	gameID := testsupport.NewGame(t, st, "hades")
	review := testsupport.NewReview(t, st, alice.ID, gameID, "8")

	ctx := context.Background()
	foreign, err := st.ReviewByIDForUser(ctx, review.ID, bob.ID)
	if err != nil {
		t.Fatalf("ReviewByIDForUser failed: %v", err)
	}
	if foreign != nil {
		t.Fatalf("expected nil for non-owner fetch, got %#v", foreign)
	}

	deleted, err := st.DeleteReviewOwned(ctx, review.ID, bob.ID)
	if err != nil {
		t.Fatalf("DeleteReviewOwned failed: %v", err)
	}
	if deleted {
		t.Fatal("expected non-owner delete to touch nothing")
	}

	deleted, err = st.DeleteReviewOwned(ctx, review.ID, alice.ID)
	if err != nil {
		t.Fatalf("DeleteReviewOwned by owner failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected owner delete to remove the row")
	}
}

func TestReviewsByUserNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	user := testsupport.NewUser(t, st, "alice")
	hades := testsupport.NewGame(t, st, "hades")
	celeste := testsupport.NewGame(t, st, "celeste")
	testsupport.NewReview(t, st, user.ID, hades, "8")
	testsupport.NewReview(t, st, user.ID, celeste, "9")

	reviews, err := st.ReviewsByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ReviewsByUser failed: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected two reviews, got %d", len(reviews))
	}
	if reviews[0].GameName != "celeste" || reviews[1].GameName != "hades" {
		t.Fatalf("expected newest first with joined names, got %q then %q", reviews[0].GameName, reviews[1].GameName)
	}
}

func TestNormalizeCatalogMergesCaseVariants(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	alice := testsupport.NewUser(t, st, "alice")
	bob := testsupport.NewUser(t, st, "bob")

	lower := testsupport.NewGame(t, st, "celeste")
	title := testsupport.NewGame(t, st, "Celeste")
	upper := testsupport.NewGame(t, st, "CELESTE")

	// Alice reviewed two case variants; normalization must drop one.
	testsupport.NewReview(t, st, alice.ID, lower, "9")
	testsupport.NewReview(t, st, alice.ID, title, "8")
	testsupport.NewReview(t, st, bob.ID, upper, "7")

	ctx := context.Background()
	report, err := st.NormalizeCatalog(ctx)
	if err != nil {
		t.Fatalf("NormalizeCatalog failed: %v", err)
	}
	if report.GamesMerged != 2 {
		t.Fatalf("expected 2 merged games, got %d", report.GamesMerged)
	}
	if report.ReviewsReassigned != 1 {
		t.Fatalf("expected 1 reassigned review, got %d", report.ReviewsReassigned)
	}
	if report.ReviewsDeleted != 1 {
		t.Fatalf("expected 1 deleted review, got %d", report.ReviewsDeleted)
	}

	games, err := st.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}
	if len(games) != 1 || games[0].Name != "celeste" {
		t.Fatalf("expected single row named celeste, got %#v", games)
	}

	kept, err := st.ReviewByUserAndGame(ctx, alice.ID, lower)
	if err != nil {
		t.Fatalf("ReviewByUserAndGame failed: %v", err)
	}
	if kept == nil || kept.Rating != "9" {
		t.Fatalf("expected keeper review to survive, got %#v", kept)
	}
}

func TestNormalizeCatalogRenamesSingletons(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.NewGame(t, st, "Hollow Knight")

	ctx := context.Background()
	report, err := st.NormalizeCatalog(ctx)
	if err != nil {
		t.Fatalf("NormalizeCatalog failed: %v", err)
	}
	if report.GamesRenamed != 1 || report.GamesMerged != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	game, err := st.GameByName(ctx, "hollow knight")
	if err != nil {
		t.Fatalf("GameByName failed: %v", err)
	}
	if game == nil {
		t.Fatal("expected renamed row to be present")
	}
}

func TestNormalizeCatalogIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	user := testsupport.NewUser(t, st, "alice")
	lower := testsupport.NewGame(t, st, "celeste")
	testsupport.NewGame(t, st, "Celeste")
	testsupport.NewReview(t, st, user.ID, lower, "9")

	ctx := context.Background()
	if _, err := st.NormalizeCatalog(ctx); err != nil {
		t.Fatalf("NormalizeCatalog failed: %v", err)
	}
	report, err := st.NormalizeCatalog(ctx)
	if err != nil {
		t.Fatalf("NormalizeCatalog rerun failed: %v", err)
	}
	if report.Changes() != 0 {
		t.Fatalf("expected no changes on rerun, got %+v", report)
	}
}

func TestBackupProducesOpenableSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	user := testsupport.NewUser(t, st, "alice")
	gameID := testsupport.NewGame(t, st, "hades")
	testsupport.NewReview(t, st, user.ID, gameID, "8")

	dest := filepath.Join(t.TempDir(), "snapshot.db")
	if err := st.Backup(context.Background(), dest); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat backup: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty backup file")
	}
}

func TestRatingsByGameGroupsHistories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	alice := testsupport.NewUser(t, st, "alice")
	bob := testsupport.NewUser(t, st, "bob")
	hades := testsupport.NewGame(t, st, "hades")
	celeste := testsupport.NewGame(t, st, "celeste")
	testsupport.NewReview(t, st, alice.ID, hades, "8, 9")
	testsupport.NewReview(t, st, bob.ID, hades, "7")
	testsupport.NewReview(t, st, alice.ID, celeste, "10")

	grouped, err := st.RatingsByGame(context.Background())
	if err != nil {
		t.Fatalf("RatingsByGame failed: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("expected two games, got %d", len(grouped))
	}
	byName := make(map[string][]string)
	for _, entry := range grouped {
		byName[entry.Name] = entry.Ratings
	}
	if len(byName["hades"]) != 2 || byName["hades"][0] != "8, 9" {
		t.Fatalf("unexpected hades histories: %v", byName["hades"])
	}
	if len(byName["celeste"]) != 1 || byName["celeste"][0] != "10" {
		t.Fatalf("unexpected celeste histories: %v", byName["celeste"])
	}
}

func TestCheckHealthReportsSchemaAndCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	user := testsupport.NewUser(t, st, "alice")
	gameID := testsupport.NewGame(t, st, "celeste")
	testsupport.NewReview(t, st, user.ID, gameID, "9")

	health, err := st.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable {
		t.Fatalf("expected database to exist and be readable: %+v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("unexpected missing tables: %v", health.MissingTables)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
	if health.Users != 1 || health.Games != 1 || health.Reviews != 1 {
		t.Fatalf("unexpected row counts: %+v", health)
	}
}
