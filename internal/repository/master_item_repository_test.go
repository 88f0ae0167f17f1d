package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
)

func seedItems(t *testing.T, repo MasterItemRepository, n int) []*domain.MasterItem {
	t.Helper()
	out := make([]*domain.MasterItem, 0, n)
	for i := 0; i < n; i++ {
		item := &domain.MasterItem{
			UUID:         uuid.NewString(),
			ItemCode:     fmt.Sprintf("ITEM-%04d", i+1),
			ItemName:     fmt.Sprintf("Item %d", i+1),
			ItemCategory: strPtr([]string{"Raw Material", "Packaging"}[i%2]),
			Buyer:        strPtr([]string{"Alpha Corp", "Beta Ltd", "Gamma Inc"}[i%3]),
		}
		if err := repo.Create(context.Background(), item); err != nil {
			t.Fatalf("create item %d: %v", i, err)
		}
		out = append(out, item)
	}
	return out
}

func TestMasterItemListPaginationArithmetic(t *testing.T) {
	repo := NewMasterItemRepository(newRepositoryDBForTest(t))
	seedItems(t, repo, 25)
	ctx := context.Background()

	page, err := repo.ListPaged(ctx, itemQuery(listingParams("1", "")))
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(page.Items) != 10 || page.LastPage != 3 || page.Total != 25 || *page.From != 1 || *page.To != 10 {
		t.Fatalf("unexpected page 1: items=%d %+v", len(page.Items), page)
	}
	if page.Items[0].ItemCode != "ITEM-0001" {
		t.Fatalf("expected default item_code asc, got %s", page.Items[0].ItemCode)
	}

	page, err = repo.ListPaged(ctx, itemQuery(listingParams("3", "")))
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(page.Items) != 5 || *page.From != 21 || *page.To != 25 {
		t.Fatalf("unexpected page 3: items=%d %+v", len(page.Items), page)
	}

	page, err = repo.ListPaged(ctx, itemQuery(listingParams("99", "")))
	if err != nil {
		t.Fatalf("list page 99: %v", err)
	}
	if len(page.Items) != 0 || page.CurrentPage != 99 || page.LastPage != 3 || page.Total != 25 {
		t.Fatalf("unexpected out of range page: %+v", page)
	}

	page, err = repo.ListPaged(ctx, itemQuery(listingParams("9223372036854775807", "")))
	if err != nil {
		t.Fatalf("list huge page: %v", err)
	}
	if len(page.Items) != 0 || page.From != nil || page.To != nil || page.Total != 25 {
		t.Fatalf("a huge page number must be empty, got items=%d from=%v", len(page.Items), page.From)
	}
}

func TestMasterItemSearchOrSemantics(t *testing.T) {
	repo := NewMasterItemRepository(newRepositoryDBForTest(t))
	ctx := context.Background()
	for _, it := range []*domain.MasterItem{
		{UUID: uuid.NewString(), ItemCode: "BOLT-1", ItemName: "Hex bolt", Buyer: strPtr("Northwind")},
		{UUID: uuid.NewString(), ItemCode: "NUT-1", ItemName: "Hex nut", Buyer: strPtr("Contoso")},
	} {
		if err := repo.Create(ctx, it); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := repo.ListPaged(ctx, itemQuery(searchParams("NORTHW")))
	if err != nil {
		t.Fatalf("search buyer: %v", err)
	}
	if page.Total != 1 || page.Items[0].ItemCode != "BOLT-1" {
		t.Fatalf("expected buyer-only match, got %+v", page.Items)
	}

	page, err = repo.ListPaged(ctx, itemQuery(searchParams("hex")))
	if err != nil {
		t.Fatalf("search name: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected both items, got %d", page.Total)
	}

	page, err = repo.ListPaged(ctx, itemQuery(searchParams("washer")))
	if err != nil {
		t.Fatalf("search miss: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("expected no matches, got %+v", page.Items)
	}
}

func TestMasterItemSearchTreatsWildcardsLiterally(t *testing.T) {
	repo := NewMasterItemRepository(newRepositoryDBForTest(t))
	ctx := context.Background()
	for _, code := range []string{"A_1", "AB1", "100%"} {
		if err := repo.Create(ctx, &domain.MasterItem{UUID: uuid.NewString(), ItemCode: code, ItemName: code}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	page, err := repo.ListPaged(ctx, itemQuery(searchParams("_")))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 || page.Items[0].ItemCode != "A_1" {
		t.Fatalf("expected literal underscore match, got %+v", page.Items)
	}
	page, err = repo.ListPaged(ctx, itemQuery(searchParams("%")))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 || page.Items[0].ItemCode != "100%" {
		t.Fatalf("expected literal percent match, got %+v", page.Items)
	}
}

func TestMasterItemFiltersCombineWithAnd(t *testing.T) {
	repo := NewMasterItemRepository(newRepositoryDBForTest(t))
	seedItems(t, repo, 12)
	ctx := context.Background()

	p := listingParams("1", "")
	p.Filters = map[string]string{"category": "Packaging", "buyer": "Beta Ltd"}
	page, err := repo.ListPaged(ctx, itemQuery(p))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total == 0 {
		t.Fatal("expected matches")
	}
	for _, it := range page.Items {
		if *it.ItemCategory != "Packaging" || *it.Buyer != "Beta Ltd" {
			t.Fatalf("filter leak: %+v", it)
		}
	}
}

func TestMasterItemSortWithTieBreak(t *testing.T) {
	repo := NewMasterItemRepository(newRepositoryDBForTest(t))
	items := seedItems(t, repo, 6)
	ctx := context.Background()

	p := listingParams("1", "")
	p.Sort, p.Direction = "buyer", "desc"
	page, err := repo.ListPaged(ctx, itemQuery(p))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if *page.Items[0].Buyer != "Gamma Inc" {
		t.Fatalf("expected desc buyer order, got %s", *page.Items[0].Buyer)
	}
	if page.Items[0].ID != items[2].ID || page.Items[1].ID != items[5].ID {
		t.Fatalf("expected id tie-break within equal buyers, got %d,%d", page.Items[0].ID, page.Items[1].ID)
	}
}

func TestMasterItemSoftDelete(t *testing.T) {
	repo := NewMasterItemRepository(newRepositoryDBForTest(t))
	items := seedItems(t, repo, 2)
	ctx := context.Background()

	if err := repo.Delete(ctx, items[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, items[0].ID); !errors.Is(err, ErrMasterItemNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	trashed, err := repo.FindByIDWithTrashed(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("find with trashed: %v", err)
	}
	if !trashed.DeletedAt.Valid {
		t.Fatal("expected deleted_at to be set")
	}
	page, err := repo.ListPaged(ctx, itemQuery(listingParams("1", "")))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != items[1].ID {
		t.Fatalf("expected tombstoned item excluded, got %+v", page.Items)
	}
	taken, err := repo.ItemCodeTaken(ctx, items[0].ItemCode, 0)
	if err != nil || !taken {
		t.Fatalf("expected tombstoned code to stay taken, taken=%v err=%v", taken, err)
	}
	if err := repo.Delete(ctx, items[0].ID); !errors.Is(err, ErrMasterItemNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestMasterItemUpdateAndNotFound(t *testing.T) {
	repo := NewMasterItemRepository(newRepositoryDBForTest(t))
	items := seedItems(t, repo, 1)
	ctx := context.Background()

	if err := repo.Update(ctx, items[0].ID, map[string]any{"item_name": "Renamed", "buyer": nil, "ppn": 11.5}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByID(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ItemName != "Renamed" || got.Buyer != nil || got.PPN != 11.5 {
		t.Fatalf("unexpected updated item: %+v", got)
	}
	if err := repo.Update(ctx, 999, map[string]any{"item_name": "x"}); !errors.Is(err, ErrMasterItemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	taken, err := repo.ItemCodeTaken(ctx, items[0].ItemCode, items[0].ID)
	if err != nil || taken {
		t.Fatalf("expected own code to be ignored, taken=%v err=%v", taken, err)
	}
}

func TestMasterItemDistinctFilterValues(t *testing.T) {
	repo := NewMasterItemRepository(newRepositoryDBForTest(t))
	seedItems(t, repo, 6)
	ctx := context.Background()
	if err := repo.Create(ctx, &domain.MasterItem{UUID: uuid.NewString(), ItemCode: "X", ItemName: "no buyer"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	cats, err := repo.DistinctCategories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Packaging" || cats[1] != "Raw Material" {
		t.Fatalf("unexpected categories: %v", cats)
	}
	buyers, err := repo.DistinctBuyers(ctx)
	if err != nil {
		t.Fatalf("buyers: %v", err)
	}
	if len(buyers) != 3 {
		t.Fatalf("unexpected buyers: %v", buyers)
	}
}
