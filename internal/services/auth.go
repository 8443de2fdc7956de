package services

import (
	"errors"
	"strings"

	"github.com/nithinv16/DukaaOnWebsite/internal/config"
	"github.com/nithinv16/DukaaOnWebsite/pkg/auth"
)

// ErrAdminDisabled means no admin credentials are configured
var ErrAdminDisabled = errors.New("admin login is not configured")

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService authenticates the single admin account from config
type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

func (s *AuthService) enabled() bool {
	return s.cfg.AdminEmail != "" && s.cfg.AdminPasswordHash != "" && s.cfg.JWTSecretKey != ""
}

// Login checks the admin email and bcrypt hash and issues a token pair
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if !s.enabled() {
		return nil, ErrAdminDisabled
	}

	if normalizeEmail(req.Email) != normalizeEmail(s.cfg.AdminEmail) {
		// 타이밍 차이를 줄이기 위해 해시 비교는 항상 수행
		auth.CheckPassword(req.Password, s.cfg.AdminPasswordHash)
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(req.Password, s.cfg.AdminPasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(normalizeEmail(s.cfg.AdminEmail))
}

// RefreshToken generates new tokens from refresh token
func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	if !s.enabled() {
		return nil, ErrAdminDisabled
	}

	claims, err := auth.ValidateRefreshToken(refreshToken, s.cfg.JWTSecretKey)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	// admin 계정이 바뀌면 기존 토큰 무효
	if claims.Role != auth.RoleAdmin || claims.Subject != normalizeEmail(s.cfg.AdminEmail) {
		return nil, auth.ErrInvalidToken
	}

	return s.issue(claims.Subject)
}

func (s *AuthService) issue(subject string) (*AuthResponse, error) {
	accessToken, refreshToken, err := auth.GenerateTokenPair(
		subject,
		auth.RoleAdmin,
		s.cfg.JWTSecretKey,
		s.cfg.JWTAccessTokenExpireMin,
		s.cfg.JWTRefreshTokenExpireDays,
	)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
