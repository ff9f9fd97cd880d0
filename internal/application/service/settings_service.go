package service

import (
	"context"
	"strings"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/validation"
)

// SettingsService handles settings-related business logic
type SettingsService struct {
	store          repository.CollectionStore
	defaultAppName string
}

// NewSettingsService creates a new settings service
func NewSettingsService(store repository.CollectionStore, defaultAppName string) *SettingsService {
	if defaultAppName == "" {
		defaultAppName = entity.DefaultAppName
	}
	return &SettingsService{
		store:          store,
		defaultAppName: defaultAppName,
	}
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	AppName string `json:"appName" validate:"required"`
	LogoURL string `json:"logoUrl"`
}

// GetSettings returns the stored settings, or defaults when none were saved
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.AppSettings, error) {
	return loadSettings(ctx, s.store, s.defaultAppName)
}

// UpdateSettings overwrites the settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.AppSettings, error) {
	input.AppName = strings.TrimSpace(input.AppName)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	settings := entity.AppSettings{
		AppName: input.AppName,
		LogoURL: strings.TrimSpace(input.LogoURL),
	}
	err := s.store.Update(ctx, func(tx repository.CollectionTx) error {
		return repository.SaveObject(ctx, tx, repository.CollectionSettings, settings)
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func loadSettings(ctx context.Context, r repository.CollectionReader, defaultAppName string) (*entity.AppSettings, error) {
	settings, found, err := repository.LoadObject[entity.AppSettings](ctx, r, repository.CollectionSettings)
	if err != nil {
		return nil, err
	}
	if !found || settings.AppName == "" {
		settings.AppName = defaultAppName
	}
	return &settings, nil
}
