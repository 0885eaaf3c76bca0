package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/siddharth-200231/ADProject/internal/auth"
	"github.com/siddharth-200231/ADProject/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	store  Store
	tokens *auth.Tokens
}

func NewService(store Store, tokens *auth.Tokens) *Service {
	return &Service{store: store, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	var p domain.Password
	if err := p.Set(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: p.Hash,
		Name:         name,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credential and issues a signed token. A wrong
// email and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	p := domain.Password{Hash: user.PasswordHash}
	ok, err := p.Matches(password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.store.FindByID(ctx, userID)
}
