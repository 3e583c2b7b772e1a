package service

import (
	"context"
	"errors"

	"github.com/bobalog/bobalog-go/internal/model"
	"github.com/bobalog/bobalog-go/internal/repository"
)

const maxFlavourLength = 50

var (
	ErrFlavourRequired  = errors.New("flavour is required")
	ErrFlavourTooLong   = errors.New("flavour must be 50 characters or fewer")
	ErrQuantityTooSmall = errors.New("quantity must be at least 1")
	ErrPriceNegative    = errors.New("price must not be negative")
)

// PurchaseService applies create/update/delete mutations and serves the
// unfiltered read side. A purchase the caller does not own behaves exactly
// like one that does not exist: reads come back empty and deletes are no-ops.
type PurchaseService struct {
	repo *repository.PurchaseRepository
}

// NewPurchaseService creates a new PurchaseService.
func NewPurchaseService(repo *repository.PurchaseRepository) *PurchaseService {
	return &PurchaseService{repo: repo}
}

func validatePurchase(req model.PurchaseRequest) error {
	if req.Flavour == "" {
		return ErrFlavourRequired
	}
	if len(req.Flavour) > maxFlavourLength {
		return ErrFlavourTooLong
	}
	if req.Quantity < 1 {
		return ErrQuantityTooSmall
	}
	if req.Price < 0 {
		return ErrPriceNegative
	}
	return nil
}

// Create validates and stores a new purchase, returning the canonical record.
func (s *PurchaseService) Create(ctx context.Context, ownerID int64, req model.PurchaseRequest) (*model.Purchase, error) {
	if err := validatePurchase(req); err != nil {
		return nil, err
	}

	p := &model.Purchase{
		OwnerID:  ownerID,
		Flavour:  req.Flavour,
		Quantity: req.Quantity,
		Price:    req.Price,
		Location: req.Location,
		Date:     req.Date,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Update replaces every field of the addressed purchase. Partial updates are
// not supported; callers pre-populate unchanged fields from the prior record.
// Returns nil without error when the record does not exist for this owner.
func (s *PurchaseService) Update(ctx context.Context, ownerID int64, req model.PurchaseRequest) (*model.Purchase, error) {
	if err := validatePurchase(req); err != nil {
		return nil, err
	}

	p := &model.Purchase{
		ID:       req.PurchaseID,
		OwnerID:  ownerID,
		Flavour:  req.Flavour,
		Quantity: req.Quantity,
		Price:    req.Price,
		Location: req.Location,
		Date:     req.Date,
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

// Delete removes the addressed purchase if it belongs to ownerID. Deleting a
// record that does not exist for this owner is a no-op.
func (s *PurchaseService) Delete(ctx context.Context, ownerID, purchaseID int64) error {
	err := s.repo.Delete(ctx, ownerID, purchaseID)
	if errors.Is(err, repository.ErrPurchaseNotFound) {
		return nil
	}
	return err
}

// Get retrieves a single purchase, or nil when it does not exist for this
// owner.
func (s *PurchaseService) Get(ctx context.Context, ownerID, purchaseID int64) (*model.Purchase, error) {
	p, err := s.repo.GetByID(ctx, ownerID, purchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List retrieves the owner's full log, most recent date first.
func (s *PurchaseService) List(ctx context.Context, ownerID int64) ([]model.Purchase, error) {
	purchases, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	return purchases, nil
}

// TopFlavours returns the site-wide top 7 flavours by summed quantity.
func (s *PurchaseService) TopFlavours(ctx context.Context) ([]model.FlavourTotal, error) {
	totals, err := s.repo.GlobalRanking(ctx)
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []model.FlavourTotal{}
	}
	return totals, nil
}
