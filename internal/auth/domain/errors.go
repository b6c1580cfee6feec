package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUseGoogleSignIn     = errors.New("please use Google Sign-In for this account")
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured")
	ErrGoogleVerification  = errors.New("failed to verify Google account")
	ErrInvalidOAuthState   = errors.New("invalid oauth state")
	ErrEmptyName           = errors.New("name cannot be empty")
)
