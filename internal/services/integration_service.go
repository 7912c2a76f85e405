package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"github.com/justsurfingit/carreira-ia/internal/secrets"
)

type IntegrationInput struct {
	Platform    string
	PlatformURL string
	Username    string
	Password    string
}

type IntegrationService struct {
	Store  IntegrationStore
	Sealer *secrets.Sealer
}

func NewIntegrationService(st IntegrationStore, sealer *secrets.Sealer) *IntegrationService {
	return &IntegrationService{Store: st, Sealer: sealer}
}

// sealAAD binds a sealed password to its owner.
func sealAAD(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func (s *IntegrationService) Create(ctx context.Context, userID uint, in IntegrationInput) (*models.Integration, error) {
	if strings.TrimSpace(in.Platform) == "" {
		return nil, fmt.Errorf("platform is required: %w", apperrors.ErrInvalidInput)
	}
	row := &models.Integration{
		UserID:      userID,
		Platform:    strings.TrimSpace(in.Platform),
		PlatformURL: in.PlatformURL,
		Username:    in.Username,
		IsActive:    true,
	}
	if in.Password != "" {
		sealed, err := s.Sealer.Seal(in.Password, sealAAD(userID))
		if err != nil {
			return nil, fmt.Errorf("seal password: %w", err)
		}
		row.EncryptedPassword = sealed
	}
	if err := s.Store.CreateIntegration(ctx, row); err != nil {
		return nil, err
	}
	logger.LogSuccessWithUser(userID, "integration created for "+row.Platform)
	return row, nil
}

func (s *IntegrationService) List(ctx context.Context, userID uint) ([]models.Integration, error) {
	return s.Store.ListIntegrationsByUser(ctx, userID)
}

func (s *IntegrationService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.Store.DeleteIntegration(ctx, userID, id); err != nil {
		return err
	}
	logger.LogSuccessWithUser(userID, fmt.Sprintf("integration %d deleted", id))
	return nil
}

// Reveal opens the stored password of one of the user's integrations.
func (s *IntegrationService) Reveal(ctx context.Context, userID, id uint) (string, error) {
	row, err := s.Store.GetIntegration(ctx, id)
	if err != nil {
		return "", err
	}
	if row.UserID != userID {
		return "", fmt.Errorf("integration %d: %w", id, apperrors.ErrNotFound)
	}
	if row.EncryptedPassword == "" {
		return "", nil
	}
	return s.Sealer.Open(row.EncryptedPassword, sealAAD(userID))
}

// PlatformCredential opens the user's active login for platform. Platform
// names match case-insensitively.
func (s *IntegrationService) PlatformCredential(ctx context.Context, userID uint, platform string) (*Credential, error) {
	rows, err := s.Store.ListIntegrationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if !row.IsActive || !strings.EqualFold(strings.TrimSpace(row.Platform), strings.TrimSpace(platform)) {
			continue
		}
		pw, err := s.Reveal(ctx, userID, row.ID)
		if err != nil {
			return nil, fmt.Errorf("open %s credential: %w", row.Platform, err)
		}
		return &Credential{Platform: row.Platform, PlatformURL: row.PlatformURL, Username: row.Username, Password: pw}, nil
	}
	return nil, nil
}
