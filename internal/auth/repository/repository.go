package repository

import (
	"time"

	authdomain "mailreply-backend/internal/auth/domain"
)

// UserRepository persists accounts and their refresh-token sessions.
// Lookups return nil, nil when nothing matches; emails are compared case-insensitively.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error

	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	// IssueRefreshToken stores a new session and drops the user's expired ones
	IssueRefreshToken(token *authdomain.RefreshToken) error
	// RotateRefreshToken consumes old and stores next atomically.
	// It returns authdomain.ErrRefreshTokenExpired when old was already used, revoked or expired.
	RotateRefreshToken(old string, next *authdomain.RefreshToken) error
	RevokeRefreshToken(token string) error
	RevokeUserSessions(userID string) error
	DeleteExpiredRefreshTokens(before time.Time) (int64, error)
}
