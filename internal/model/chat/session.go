package chat

import "time"

// Session captures one logged-in user of the tutor. Login is a username-only
// gate with no credential check; the session exists so the rest of the API
// has something to stamp turns with.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	DarkMode  bool      `json:"darkMode"`
	CreatedAt time.Time `json:"createdAt"`
}
