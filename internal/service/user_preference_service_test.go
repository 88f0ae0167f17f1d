package service

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	repogomock "github.com/sandeepkv93/master-items-admin/internal/repository/gomock"
)

func TestUserPreferenceServiceSave(t *testing.T) {
	t.Run("upserts under the user scope", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repogomock.NewMockUserPreferenceRepository(ctrl)
		repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *domain.UserPreference) error {
			if p.UserID != 7 || p.PreferenceType != "table_columns" || p.Page != "master-items" {
				t.Fatalf("unexpected preference: %+v", p)
			}
			if string(p.Settings) != `{"hidden":["buyer"]}` {
				t.Fatalf("unexpected settings: %s", p.Settings)
			}
			return nil
		})
		repo.EXPECT().Find(gomock.Any(), uint(7), "table_columns", "master-items").Return(&domain.UserPreference{ID: 1}, nil)
		svc := NewUserPreferenceService(repo)

		_, err := svc.Save(context.Background(), 7, UserPreferenceInput{
			UserPreferenceKey: UserPreferenceKey{PreferenceType: "table_columns", Page: " master-items "},
			Settings:          json.RawMessage(`{"hidden":["buyer"]}`),
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	})

	t.Run("requires settings and key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewUserPreferenceService(repogomock.NewMockUserPreferenceRepository(ctrl))

		_, err := svc.Save(context.Background(), 7, UserPreferenceInput{Settings: json.RawMessage(`null`)})
		ve, ok := IsValidationError(err)
		if !ok || len(ve.Fields) != 3 {
			t.Fatalf("expected three field errors, got %v", err)
		}
	})
}

func TestUserPreferenceServiceFindMissingIsNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repogomock.NewMockUserPreferenceRepository(ctrl)
	repo.EXPECT().Find(gomock.Any(), uint(7), "table_columns", "roles").Return(nil, repository.ErrUserPreferenceNotFound)
	svc := NewUserPreferenceService(repo)

	pref, err := svc.Find(context.Background(), 7, UserPreferenceKey{PreferenceType: "table_columns", Page: "roles"})
	if err != nil || pref != nil {
		t.Fatalf("expected nil preference without error, got %+v %v", pref, err)
	}
}
