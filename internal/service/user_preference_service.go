package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
)

const userPreferenceResource = "user_preference"

type UserPreferenceKey struct {
	PreferenceType string `json:"preference_type" validate:"required,max=255"`
	Page           string `json:"page" validate:"required,max=255"`
}

type UserPreferenceInput struct {
	UserPreferenceKey
	Settings json.RawMessage `json:"settings"`
}

type UserPreferenceServiceImpl struct {
	repo repository.UserPreferenceRepository
}

func NewUserPreferenceService(repo repository.UserPreferenceRepository) *UserPreferenceServiceImpl {
	return &UserPreferenceServiceImpl{repo: repo}
}

// Save stores settings for the user's (preference_type, page) pair,
// overwriting any earlier value.
func (s *UserPreferenceServiceImpl) Save(ctx context.Context, userID uint, input UserPreferenceInput) (*domain.UserPreference, error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordResourceOperation(ctx, userPreferenceResource, "save", outcome, time.Since(start))
	}()

	input.UserPreferenceKey = input.UserPreferenceKey.normalized()
	ve, err := validateInput(input.UserPreferenceKey)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	settings := strings.TrimSpace(string(input.Settings))
	switch {
	case settings == "" || settings == "null":
		ve.add("settings", "The settings field is required.")
	case !json.Valid([]byte(settings)):
		ve.add("settings", "The settings field must be a valid JSON string.")
	}
	if !ve.empty() {
		outcome = "bad_request"
		return nil, ve
	}

	pref := &domain.UserPreference{
		UserID:         userID,
		PreferenceType: input.PreferenceType,
		Page:           input.Page,
		Settings:       datatypes.JSON(settings),
	}
	if err := s.repo.Upsert(ctx, pref); err != nil {
		outcome = "error"
		return nil, err
	}
	return s.repo.Find(ctx, userID, pref.PreferenceType, pref.Page)
}

// Find returns nil without an error when nothing has been saved yet.
func (s *UserPreferenceServiceImpl) Find(ctx context.Context, userID uint, key UserPreferenceKey) (*domain.UserPreference, error) {
	key = key.normalized()
	ve, err := validateInput(key)
	if err != nil {
		return nil, err
	}
	if !ve.empty() {
		return nil, ve
	}
	pref, err := s.repo.Find(ctx, userID, key.PreferenceType, key.Page)
	if errors.Is(err, repository.ErrUserPreferenceNotFound) {
		return nil, nil
	}
	return pref, err
}

func (k UserPreferenceKey) normalized() UserPreferenceKey {
	k.PreferenceType = strings.TrimSpace(k.PreferenceType)
	k.Page = strings.TrimSpace(k.Page)
	return k
}
