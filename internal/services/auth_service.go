package services

import (
	"errors"
	"fmt"
	"time"

	"curio/internal/models"
	"curio/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is the result of a successful login or refresh. Both tokens are
// freshly minted every time; refresh rotates the refresh token too.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService handles registration, credential checks, and JWT issuing.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new user with a bcrypt-hashed password. Username and
// email must be unique; either collision is a conflict.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, conflictf("username %q already taken", username)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, conflictf("email %q already registered", email)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login authenticates the credentials and issues a token pair. Unknown
// username and wrong password yield the same failure.
func (s *AuthService) Login(username, password string) (*TokenPair, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	return s.issuePair(user.Username)
}

// Authenticate verifies a username/password pair and returns the user.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Refresh validates a refresh token and rotates the whole pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	username, err := s.resolveToken(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.issuePair(user.Username)
}

// ResolveAccessToken validates an access token and loads its user. Any
// decode, signature, expiry, or type failure resolves to ErrInvalidToken.
func (s *AuthService) ResolveAccessToken(token string) (*models.User, error) {
	username, err := s.resolveToken(token, "access")
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *AuthService) issuePair(username string) (*TokenPair, error) {
	access, err := s.signToken(username, "access", s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(username, "refresh", s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *AuthService) signToken(username, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"typ": typ,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	if typ == "refresh" {
		// Distinct jti so two refresh tokens minted within the same
		// second still differ.
		claims["jti"] = uuid.New().String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// resolveToken parses and validates a token of the expected type and returns
// its subject. Fails closed: any anomaly is ErrInvalidToken.
func (s *AuthService) resolveToken(tokenString, wantType string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
