package models

import "time"

// Exchange is one completed question/answer pair within a session
type Exchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Session scopes a bounded window of prior exchanges used as model context.
// Sessions live for the process lifetime only; persistence across restarts is
// intentionally not provided.
type Session struct {
	ID        string     `json:"id"`
	Exchanges []Exchange `json:"exchanges"`
	CreatedAt time.Time  `json:"created_at"`
}
