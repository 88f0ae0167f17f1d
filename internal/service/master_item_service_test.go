package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	repogomock "github.com/sandeepkv93/master-items-admin/internal/repository/gomock"
)

func ptr[T any](v T) *T { return &v }

func TestMasterItemServiceCreate(t *testing.T) {
	t.Run("assigns uuid and normalizes rates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repogomock.NewMockMasterItemRepository(ctrl)
		repo.EXPECT().ItemCodeTaken(gomock.Any(), "ITEM-1", uint(0)).Return(false, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, item *domain.MasterItem) error {
			if _, err := uuid.Parse(item.UUID); err != nil {
				t.Fatalf("expected uuid before insert, got %q", item.UUID)
			}
			item.ID = 5
			return nil
		})
		svc := NewMasterItemService(repo)

		item, err := svc.Create(context.Background(), MasterItemInput{
			ItemCode: "  ITEM-1 ",
			ItemName: "Widget",
			Buyer:    ptr("   "),
			PPN:      ptr(11.456),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if item.ID != 5 || item.ItemCode != "ITEM-1" {
			t.Fatalf("unexpected item: %+v", item)
		}
		if item.PPN != 11.46 || item.PPH != 0 {
			t.Fatalf("expected ppn=11.46 pph=0, got ppn=%v pph=%v", item.PPN, item.PPH)
		}
		if item.Buyer != nil {
			t.Fatalf("expected blank buyer to be stored as null, got %q", *item.Buyer)
		}
	})

	t.Run("duplicate item code is a field error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repogomock.NewMockMasterItemRepository(ctrl)
		repo.EXPECT().ItemCodeTaken(gomock.Any(), "ITEM-1", uint(0)).Return(true, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
		svc := NewMasterItemService(repo)

		_, err := svc.Create(context.Background(), MasterItemInput{ItemCode: "ITEM-1", ItemName: "Widget"})
		ve, ok := IsValidationError(err)
		if !ok || ve.Fields["item_code"] != "The item code has already been taken." {
			t.Fatalf("expected item_code validation error, got %v", err)
		}
	})

	t.Run("missing required fields skip the uniqueness lookup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repogomock.NewMockMasterItemRepository(ctrl)
		svc := NewMasterItemService(repo)

		_, err := svc.Create(context.Background(), MasterItemInput{})
		ve, ok := IsValidationError(err)
		if !ok || len(ve.Fields) != 2 {
			t.Fatalf("expected two field errors, got %v", err)
		}
	})
}

func TestMasterItemServiceListLoadsFilterOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repogomock.NewMockMasterItemRepository(ctrl)
	repo.EXPECT().ListPaged(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req listing.ListRequest) (listing.Page[domain.MasterItem], error) {
		if req.SortField != "item_code" || req.PerPage != 20 || req.Page != 2 {
			t.Fatalf("unexpected request: %+v", req)
		}
		return listing.NewPage([]domain.MasterItem{{ID: 1}}, 21, req), nil
	})
	repo.EXPECT().DistinctCategories(gomock.Any()).Return([]string{"Food"}, nil)
	repo.EXPECT().DistinctBuyers(gomock.Any()).Return([]string{"Alice", "Bob"}, nil)
	svc := NewMasterItemService(repo)

	idx, err := svc.List(context.Background(), listing.Params{Sort: "bogus", PerPage: "20", Page: "2"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if idx.Page.Total != 21 || idx.Page.LastPage != 2 || len(idx.Page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", idx.Page)
	}
	if len(idx.Categories) != 1 || len(idx.Buyers) != 2 {
		t.Fatalf("unexpected filter options: %v %v", idx.Categories, idx.Buyers)
	}
}

func TestMasterItemServiceListPropagatesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repogomock.NewMockMasterItemRepository(ctrl)
	expected := errors.New("db down")
	repo.EXPECT().ListPaged(gomock.Any(), gomock.Any()).Return(listing.Page[domain.MasterItem]{}, nil)
	repo.EXPECT().DistinctCategories(gomock.Any()).Return(nil, expected)
	repo.EXPECT().DistinctBuyers(gomock.Any()).Return(nil, nil).AnyTimes()
	svc := NewMasterItemService(repo)

	if _, err := svc.List(context.Background(), listing.Params{}); !errors.Is(err, expected) {
		t.Fatalf("expected %v, got %v", expected, err)
	}
}

func TestMasterItemServiceUpdate(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repogomock.NewMockMasterItemRepository(ctrl)
		repo.EXPECT().FindByID(gomock.Any(), uint(9)).Return(nil, repository.ErrMasterItemNotFound)
		svc := NewMasterItemService(repo)

		_, err := svc.Update(context.Background(), 9, MasterItemInput{ItemCode: "A", ItemName: "B"})
		if !errors.Is(err, repository.ErrMasterItemNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("replaces every editable column", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repogomock.NewMockMasterItemRepository(ctrl)
		existing := &domain.MasterItem{ID: 3, ItemCode: "OLD", ItemName: "Old", Buyer: ptr("Alice")}
		repo.EXPECT().FindByID(gomock.Any(), uint(3)).Return(existing, nil)
		repo.EXPECT().ItemCodeTaken(gomock.Any(), "NEW", uint(3)).Return(false, nil)
		repo.EXPECT().Update(gomock.Any(), uint(3), gomock.Any()).DoAndReturn(func(_ context.Context, _ uint, updates map[string]any) error {
			if updates["item_code"] != "NEW" || updates["pph"] != 2.5 {
				t.Fatalf("unexpected updates: %v", updates)
			}
			if buyer, ok := updates["buyer"].(*string); !ok || buyer != nil {
				t.Fatalf("expected buyer to be cleared, got %v", updates["buyer"])
			}
			return nil
		})
		repo.EXPECT().FindByID(gomock.Any(), uint(3)).Return(&domain.MasterItem{ID: 3, ItemCode: "NEW"}, nil)
		svc := NewMasterItemService(repo)

		item, err := svc.Update(context.Background(), 3, MasterItemInput{ItemCode: "NEW", ItemName: "New", PPH: ptr(2.5)})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if item.ItemCode != "NEW" {
			t.Fatalf("unexpected item: %+v", item)
		}
	})
}

func TestMasterItemServiceDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repogomock.NewMockMasterItemRepository(ctrl)
	repo.EXPECT().Delete(gomock.Any(), uint(4)).Return(repository.ErrMasterItemNotFound)
	svc := NewMasterItemService(repo)

	if err := svc.Delete(context.Background(), 4); !errors.Is(err, repository.ErrMasterItemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
