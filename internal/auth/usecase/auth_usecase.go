package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	authdomain "mailreply-backend/internal/auth/domain"
	authdto "mailreply-backend/internal/auth/dto"
	"mailreply-backend/internal/auth/repository"
	"mailreply-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeState   = "oauth_state"

	oauthStateTTL = 10 * time.Minute
)

const (
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	config   *config.Config

	httpClient    *http.Client
	oauthEndpoint oauth2.Endpoint
	tokenInfoURL  string
	userInfoURL   string
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:      userRepo,
		config:        cfg,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		oauthEndpoint: google.Endpoint,
		tokenInfoURL:  googleTokenInfoURL,
		userInfoURL:   googleUserInfoURL,
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrInvalidCredentials
	}

	if user.Provider != authdomain.ProviderEmail && user.Password == "" {
		return nil, authdomain.ErrUseGoogleSignIn
	}

	if !passwordMatches(req.Password, user.Password) {
		return nil, authdomain.ErrInvalidCredentials
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, authdomain.ErrEmailTaken
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     strings.TrimSpace(req.Name),
		Provider: authdomain.ProviderEmail,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	return u.generateTokens(user)
}

// googleTokenInfo is the tokeninfo endpoint response; email_verified arrives as the string "true"
type googleTokenInfo struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified string `json:"email_verified"`
	Audience      string `json:"aud"`
	Sub           string `json:"sub"`
}

// googleUserInfo is the OpenID userinfo response
type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (u *authUsecase) GoogleSignIn(idToken string) (*authdto.TokenResponse, error) {
	resp, err := u.httpClient.Get(u.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authdomain.ErrGoogleVerification, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d, body: %s", authdomain.ErrGoogleVerification, resp.StatusCode, string(body))
	}

	var tokenInfo googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, fmt.Errorf("%w: decode token info: %v", authdomain.ErrGoogleVerification, err)
	}

	if tokenInfo.EmailVerified != "true" {
		return nil, fmt.Errorf("%w: email is not verified", authdomain.ErrGoogleVerification)
	}
	if u.config.GoogleClientID != "" && tokenInfo.Audience != u.config.GoogleClientID {
		return nil, fmt.Errorf("%w: token issued for another client", authdomain.ErrGoogleVerification)
	}

	return u.signInGoogleUser(tokenInfo.Email, tokenInfo.Name, tokenInfo.Picture)
}

func (u *authUsecase) oauthConfig() (*oauth2.Config, error) {
	if u.config.GoogleClientID == "" || u.config.GoogleClientSecret == "" {
		return nil, authdomain.ErrGoogleNotConfigured
	}
	return &oauth2.Config{
		ClientID:     u.config.GoogleClientID,
		ClientSecret: u.config.GoogleClientSecret,
		RedirectURL:  u.config.GoogleRedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     u.oauthEndpoint,
	}, nil
}

func (u *authUsecase) GoogleAuthURL() (string, error) {
	conf, err := u.oauthConfig()
	if err != nil {
		return "", err
	}

	state, err := u.sign(jwt.MapClaims{
		"typ":   tokenTypeState,
		"nonce": uuid.New().String(),
		"exp":   time.Now().Add(oauthStateTTL).Unix(),
	})
	if err != nil {
		return "", err
	}

	return conf.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

func (u *authUsecase) GoogleCallback(ctx context.Context, code, state string) (*authdto.TokenResponse, error) {
	conf, err := u.oauthConfig()
	if err != nil {
		return nil, err
	}

	if _, err := u.parse(state, tokenTypeState); err != nil {
		return nil, authdomain.ErrInvalidOAuthState
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, u.httpClient)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", authdomain.ErrGoogleVerification, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := conf.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", authdomain.ErrGoogleVerification, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", authdomain.ErrGoogleVerification, resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %v", authdomain.ErrGoogleVerification, err)
	}
	if !info.EmailVerified {
		return nil, fmt.Errorf("%w: email is not verified", authdomain.ErrGoogleVerification)
	}

	return u.signInGoogleUser(info.Email, info.Name, info.Picture)
}

func (u *authUsecase) signInGoogleUser(email, name, picture string) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &authdomain.User{
			Email:     email,
			Name:      name,
			AvatarURL: picture,
			Provider:  authdomain.ProviderGoogle,
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
	} else {
		if user.Name == "" {
			user.Name = name
		}
		user.AvatarURL = picture
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	return u.generateTokens(user)
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	claims, err := u.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, authdomain.ErrRefreshTokenExpired
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" || userID != storedToken.UserID {
		return nil, authdomain.ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	// the presented token is single use; a concurrent refresh with it loses the rotation
	return u.issueTokens(user, refreshToken)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.userRepo.RevokeRefreshToken(refreshToken)
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	claims, err := u.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	return user, nil
}

func (u *authUsecase) UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, authdomain.ErrEmptyName
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	user.Name = name
	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) ChangePassword(userID string, req *authdto.ChangePasswordRequest) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return authdomain.ErrUserNotFound
	}

	// Google accounts may set a first password without knowing one
	if user.Password != "" && !passwordMatches(req.CurrentPassword, user.Password) {
		return authdomain.ErrInvalidCredentials
	}

	hashedPassword, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	if err := u.userRepo.Update(user); err != nil {
		return err
	}

	// sign out every other session
	return u.userRepo.RevokeUserSessions(user.ID)
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	return u.issueTokens(user, "")
}

// issueTokens signs a new token pair. A non-empty previous refresh token is consumed in the same write.
func (u *authUsecase) issueTokens(user *authdomain.User, previous string) (*authdto.TokenResponse, error) {
	now := time.Now()

	accessToken, err := u.sign(jwt.MapClaims{
		"typ":     tokenTypeAccess,
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     now.Unix(),
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.sign(jwt.MapClaims{
		"typ":      tokenTypeRefresh,
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"exp":      now.Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      now.Unix(),
	})
	if err != nil {
		return nil, err
	}

	session := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(u.config.JWTRefreshExpiry),
	}
	if previous == "" {
		err = u.userRepo.IssueRefreshToken(session)
	} else {
		err = u.userRepo.RotateRefreshToken(previous, session)
	}
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) sign(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.config.JWTSecret))
}

// parse verifies signature, expiry and the typ claim
func (u *authUsecase) parse(tokenString, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, authdomain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}

	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, authdomain.ErrInvalidToken
	}
	return claims, nil
}

// IsClientError reports whether err comes from bad credentials or input rather than a server fault
func IsClientError(err error) bool {
	for _, target := range []error{
		authdomain.ErrInvalidCredentials,
		authdomain.ErrUseGoogleSignIn,
		authdomain.ErrInvalidToken,
		authdomain.ErrRefreshTokenExpired,
		authdomain.ErrGoogleVerification,
		authdomain.ErrInvalidOAuthState,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
