package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
)

const masterItemResource = "master_item"

// MasterItemInput is the editable part of a master item. Optional strings
// that are blank after trimming are stored as NULL.
type MasterItemInput struct {
	ItemCode       string   `json:"item_code" validate:"required,max=255"`
	ItemName       string   `json:"item_name" validate:"required,max=255"`
	CategoryItemID *uint64  `json:"category_item_id"`
	AolID          *string  `json:"aol_id" validate:"omitempty,max=255"`
	ItemCategory   *string  `json:"item_category" validate:"omitempty,max=255"`
	Buyer          *string  `json:"buyer" validate:"omitempty,max=255"`
	PPN            *float64 `json:"ppn" validate:"omitempty,gte=0,lte=100"`
	PPH            *float64 `json:"pph" validate:"omitempty,gte=0,lte=100"`
}

func (in MasterItemInput) normalized() MasterItemInput {
	in.ItemCode = strings.TrimSpace(in.ItemCode)
	in.ItemName = strings.TrimSpace(in.ItemName)
	in.AolID = trimOptional(in.AolID)
	in.ItemCategory = trimOptional(in.ItemCategory)
	in.Buyer = trimOptional(in.Buyer)
	return in
}

func (in MasterItemInput) columns() map[string]any {
	return map[string]any{
		"item_code":        in.ItemCode,
		"item_name":        in.ItemName,
		"category_item_id": in.CategoryItemID,
		"aol_id":           in.AolID,
		"item_category":    in.ItemCategory,
		"buyer":            in.Buyer,
		"ppn":              taxRate(in.PPN),
		"pph":              taxRate(in.PPH),
	}
}

// taxRate defaults a missing rate to zero and keeps two decimals.
func taxRate(v *float64) float64 {
	if v == nil {
		return 0
	}
	return math.Round(*v*100) / 100
}

// MasterItemIndex is one list page plus the distinct values offered by the
// category and buyer filters.
type MasterItemIndex struct {
	Index[domain.MasterItem]
	Categories []string
	Buyers     []string
}

type MasterItemServiceImpl struct {
	repo repository.MasterItemRepository
	now  func() time.Time
}

func NewMasterItemService(repo repository.MasterItemRepository) *MasterItemServiceImpl {
	return &MasterItemServiceImpl{repo: repo, now: time.Now}
}

func (s *MasterItemServiceImpl) List(ctx context.Context, params listing.Params) (MasterItemIndex, error) {
	start := s.now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, masterItemResource, "list", outcome, time.Since(start)) }()

	req := listing.BuildQuery(params, MasterItemsResource)
	out := MasterItemIndex{Index: Index[domain.MasterItem]{Request: req}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.repo.ListPaged(gctx, req)
		out.Page = page
		return err
	})
	g.Go(func() error {
		categories, err := s.repo.DistinctCategories(gctx)
		out.Categories = categories
		return err
	})
	g.Go(func() error {
		buyers, err := s.repo.DistinctBuyers(gctx)
		out.Buyers = buyers
		return err
	})
	if err := g.Wait(); err != nil {
		outcome = "error"
		return MasterItemIndex{}, err
	}
	return out, nil
}

func (s *MasterItemServiceImpl) Get(ctx context.Context, id uint) (*domain.MasterItem, error) {
	start := s.now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, masterItemResource, "get", outcome, time.Since(start)) }()

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = errorOutcome(err, repository.ErrMasterItemNotFound)
		return nil, err
	}
	return item, nil
}

func (s *MasterItemServiceImpl) Create(ctx context.Context, input MasterItemInput) (*domain.MasterItem, error) {
	start := s.now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, masterItemResource, "create", outcome, time.Since(start)) }()

	input = input.normalized()
	if err := s.validate(ctx, input, 0); err != nil {
		outcome = errorOutcome(err, nil)
		return nil, err
	}

	item := &domain.MasterItem{
		UUID:           uuid.NewString(),
		ItemCode:       input.ItemCode,
		ItemName:       input.ItemName,
		CategoryItemID: input.CategoryItemID,
		AolID:          input.AolID,
		ItemCategory:   input.ItemCategory,
		Buyer:          input.Buyer,
		PPN:            taxRate(input.PPN),
		PPH:            taxRate(input.PPH),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if isUniqueViolation(err) {
			outcome = "bad_request"
			return nil, takenError("item_code")
		}
		outcome = "error"
		return nil, err
	}
	return item, nil
}

// Update replaces every editable column with input.
func (s *MasterItemServiceImpl) Update(ctx context.Context, id uint, input MasterItemInput) (*domain.MasterItem, error) {
	start := s.now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, masterItemResource, "update", outcome, time.Since(start)) }()

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		outcome = errorOutcome(err, repository.ErrMasterItemNotFound)
		return nil, err
	}
	input = input.normalized()
	if err := s.validate(ctx, input, id); err != nil {
		outcome = errorOutcome(err, nil)
		return nil, err
	}
	if err := s.repo.Update(ctx, id, input.columns()); err != nil {
		switch {
		case isUniqueViolation(err):
			outcome = "bad_request"
			return nil, takenError("item_code")
		default:
			outcome = errorOutcome(err, repository.ErrMasterItemNotFound)
			return nil, err
		}
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	return item, nil
}

// Delete soft-deletes the item. Its item code stays reserved.
func (s *MasterItemServiceImpl) Delete(ctx context.Context, id uint) error {
	start := s.now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, masterItemResource, "delete", outcome, time.Since(start)) }()

	if err := s.repo.Delete(ctx, id); err != nil {
		outcome = errorOutcome(err, repository.ErrMasterItemNotFound)
		return err
	}
	return nil
}

func (s *MasterItemServiceImpl) validate(ctx context.Context, input MasterItemInput, exceptID uint) error {
	ve, err := validateInput(input)
	if err != nil {
		return err
	}
	if _, bad := ve.Fields["item_code"]; !bad {
		taken, err := s.repo.ItemCodeTaken(ctx, input.ItemCode, exceptID)
		if err != nil {
			return err
		}
		if taken {
			ve.add("item_code", takenMessage("item_code"))
		}
	}
	if ve.empty() {
		return nil
	}
	return ve
}

// errorOutcome classifies err for operation metrics.
func errorOutcome(err, notFound error) string {
	if _, ok := IsValidationError(err); ok {
		return "bad_request"
	}
	if notFound != nil && errors.Is(err, notFound) {
		return "not_found"
	}
	return "error"
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
