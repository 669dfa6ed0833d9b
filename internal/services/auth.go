package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/repositories"
	"loneus/cv-builder/internal/validation"
)

const (
	minPasswordLength = 4
	bcryptCost        = 11
)

// Identity is what a verified token says about the caller.
type Identity struct {
	OwnerID   string
	Email     string
	Anonymous bool
}

// AuthResult carries the signed token. Profile tracks the background
// profile creation and is nil for Login.
type AuthResult struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
	Profile *PendingWrite   `json:"-"`
}

type AuthService interface {
	Register(ctx context.Context, email, password string, role models.Role) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Guest(ctx context.Context) (*AuthResult, error)
	VerifyToken(token string) (*Identity, error)
}

type authService struct {
	accounts repositories.AccountRepository
	gateway  PersistenceGateway
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(accounts repositories.AccountRepository, gateway PersistenceGateway, secret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		accounts: accounts,
		gateway:  gateway,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// Register implements AuthService. The profile row is created in the
// background; the token is returned as soon as the account exists.
func (s *authService) Register(ctx context.Context, email, password string, role models.Role) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !validation.IsEmail(email) {
		return nil, invalidRequest("please enter a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, invalidRequest("password must be at least %d characters", minPasswordLength)
	}
	if !role.Valid() {
		return nil, invalidRequest("unknown role %q", role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.New(),
		Email:        &email,
		PasswordHash: string(hashed),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issue(ctx, account, role, email)
}

// Login implements AuthService.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, invalidRequest("email and password are required")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signToken(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Account: account}, nil
}

// Guest implements AuthService. Guests are always job-seekers.
func (s *authService) Guest(ctx context.Context) (*AuthResult, error) {
	account := &models.Account{
		ID:        uuid.New(),
		Anonymous: true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return s.issue(ctx, account, models.RoleJobSeeker, "")
}

func (s *authService) issue(ctx context.Context, account *models.Account, role models.Role, email string) (*AuthResult, error) {
	token, err := s.signToken(account)
	if err != nil {
		return nil, err
	}

	ownerID := account.ID.String()
	pending, err := s.gateway.CreateProfile(ctx, ownerID, role, email)
	if err != nil {
		log.Printf("⚠️  Profile creation not dispatched for %s: %v\n", ownerID, err)
	}

	return &AuthResult{Token: token, Account: account, Profile: pending}, nil
}

func (s *authService) signToken(account *models.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":  account.ID.String(),
		"anon": account.Anonymous,
		"exp":  s.now().Add(s.tokenTTL).Unix(),
	}
	if account.Email != nil {
		claims["email"] = *account.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken implements AuthService.
func (s *authService) VerifyToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthRequired, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrAuthRequired
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrAuthRequired
	}
	anon, _ := claims["anon"].(bool)
	email, _ := claims["email"].(string)

	return &Identity{OwnerID: sub, Email: email, Anonymous: anon}, nil
}
