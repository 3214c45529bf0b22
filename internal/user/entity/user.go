package entity

import "time"

// User represents a row in the `users` table.
type User struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Password  string    `db:"password"` // "<hex salt>:<hex key>"
	Highscore int       `db:"highscore"`
	Public    bool      `db:"public"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SessionView is the projection attached to an authenticated request. It never
// carries the stored credential.
type SessionView struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Public    bool   `db:"public" json:"public"`
	Highscore int    `db:"highscore" json:"highscore"`
}

// LeaderboardEntry is one visible user on the leaderboard.
type LeaderboardEntry struct {
	Name      string `db:"name" json:"name"`
	Highscore int    `db:"highscore" json:"highscore"`
}
