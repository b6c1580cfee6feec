package usecase

import (
	"context"

	authdomain "mailreply-backend/internal/auth/domain"
	authdto "mailreply-backend/internal/auth/dto"
)

// AuthUsecase defines the business logic for accounts and sessions
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)

	// GoogleSignIn verifies a Google ID token issued to the front-end
	GoogleSignIn(idToken string) (*authdto.TokenResponse, error)
	// GoogleAuthURL returns the consent page URL for the server-side code flow
	GoogleAuthURL() (string, error)
	// GoogleCallback exchanges the authorization code and signs the user in
	GoogleCallback(ctx context.Context, code, state string) (*authdto.TokenResponse, error)

	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(token string) (*authdomain.User, error)

	UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error)
	ChangePassword(userID string, req *authdto.ChangePasswordRequest) error
}
