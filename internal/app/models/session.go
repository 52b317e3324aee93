package models

import "time"

// Session is one issued login, keyed by the token ID carried in the session cookie
type Session struct {
	TokenID   string    `json:"tokenId" db:"token_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	IsRevoked bool      `json:"isRevoked" db:"is_revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Active reports whether the session can still authenticate requests at now
func (s *Session) Active(now time.Time) bool {
	return !s.IsRevoked && now.Before(s.ExpiresAt)
}
