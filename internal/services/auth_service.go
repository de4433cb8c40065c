package services

import (
	"context"
	"time"

	"taskhub/internal/apperr"
	"taskhub/internal/domain"
	"taskhub/internal/store"
)

const usersResource = "users"

type AuthService struct {
	Store  *store.Client
	Creds  *CredentialService
	Tokens *TokenService
}

func NewAuthService(st *store.Client, creds *CredentialService, tokens *TokenService) *AuthService {
	return &AuthService{Store: st, Creds: creds, Tokens: tokens}
}

// AuthResult is a freshly authenticated user plus their bearer token.
type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, email, password, role string) (*AuthResult, error) {
	existing, err := s.Store.FindByField(ctx, usersResource, "email", email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.New(apperr.KindConflict, "User already exists with this email")
	}

	hash, err := s.Creds.Hash(password)
	if err != nil {
		return nil, err
	}

	rec, err := s.Store.Create(ctx, usersResource, store.Record{
		"email":     email,
		"password":  hash,
		"role":      role,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	user := domain.UserFromRecord(rec)
	token, err := s.Tokens.Issue(domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login fails with one identical message for unknown emails and wrong
// passwords, so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	rec, err := s.Store.FindByField(ctx, usersResource, "email", email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "Invalid credentials")
	}

	user := domain.UserFromRecord(rec)
	ok, err := s.Creds.Verify(password, user.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.KindUnauthenticated, "Invalid credentials")
	}

	token, err := s.Tokens.Issue(domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int) (domain.User, error) {
	rec, err := s.Store.FindByID(ctx, usersResource, userID)
	if err != nil {
		return domain.User{}, err
	}
	if rec == nil {
		return domain.User{}, apperr.New(apperr.KindNotFound, "User not found")
	}
	return domain.UserFromRecord(rec), nil
}
