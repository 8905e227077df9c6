package testsupport

import (
	"context"
	"testing"

	"gameboxd/internal/config"
	"gameboxd/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewUser creates an account for tests using the provided store.
func NewUser(t testing.TB, st *store.Store, username string) *store.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), username, "x")
	if err != nil {
		t.Fatalf("store.CreateUser: %v", err)
	}
	return user
}

// NewGame resolves a catalog entry for tests, creating it when absent.
func NewGame(t testing.TB, st *store.Store, name string) int64 {
	t.Helper()

	id, err := st.EnsureGame(context.Background(), name)
	if err != nil {
		t.Fatalf("store.EnsureGame: %v", err)
	}
	return id
}

// NewReview inserts a review row for tests.
func NewReview(t testing.TB, st *store.Store, userID, gameID int64, rating string) *store.Review {
	t.Helper()

	review, err := st.InsertReview(context.Background(), &store.Review{
		UserID: userID,
		GameID: gameID,
		Rating: rating,
	})
	if err != nil {
		t.Fatalf("store.InsertReview: %v", err)
	}
	return review
}
