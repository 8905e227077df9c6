package store

import "time"

// User is a registered account. The password hash is a bcrypt digest; the
// store never sees plaintext credentials.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Game is one catalog entry: the canonical record for a distinct game, keyed
// by its case-normalized (lower-cased) name. Many reviews reference one game.
type Game struct {
	ID   int64
	Name string
}

// Review is one user's cumulative evaluation of one game. Rating and Comment
// accumulate across resubmissions as delimiter-joined history rather than
// being overwritten; see the review package for the merge rules.
type Review struct {
	ID        int64
	UserID    int64
	GameID    int64
	GameName  string // populated by joined queries, empty otherwise
	Rating    string
	Comment   string
	Source    string
	Price     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GameRatings aggregates every stored rating history for one game.
type GameRatings struct {
	GameID  int64
	Name    string
	Ratings []string
}
