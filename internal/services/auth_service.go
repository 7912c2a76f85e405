package services

import (
	"context"

	"github.com/justsurfingit/carreira-ia/internal/auth"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/models"
)

type AuthService struct {
	Store       AuthStore
	Tokens      *auth.TokenManager
	OwnerOpenID string
}

func NewAuthService(st AuthStore, tokens *auth.TokenManager, ownerOpenID string) *AuthService {
	return &AuthService{Store: st, Tokens: tokens, OwnerOpenID: ownerOpenID}
}

// Login exchanges an identity assertion for a session token, creating the
// user on first sight.
func (s *AuthService) Login(ctx context.Context, assertion string) (string, *models.User, error) {
	id, err := s.Tokens.ParseIdentityAssertion(assertion)
	if err != nil {
		return "", nil, err
	}
	user, err := s.Store.UpsertUser(ctx, models.User{
		OpenID:      id.OpenID,
		Name:        id.Name,
		Email:       id.Email,
		LoginMethod: id.LoginMethod,
	}, s.OwnerOpenID)
	if err != nil {
		return "", nil, err
	}
	token, err := s.Tokens.IssueToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	logger.LogSuccessWithUser(user.ID, "signed in")
	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.Store.GetUser(ctx, userID)
}
