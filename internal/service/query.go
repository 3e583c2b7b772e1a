package service

import (
	"context"
	"time"

	"github.com/bobalog/bobalog-go/internal/model"
	"github.com/bobalog/bobalog-go/internal/repository"
)

// QueryService dispatches a single-mode filter request to one of the three
// retrieval strategies. Callers construct the request with model.ParseFilter
// so an ambiguous selection never reaches Dispatch.
type QueryService struct {
	repo *repository.PurchaseRepository
	now  func() time.Time
}

// NewQueryService creates a new QueryService.
func NewQueryService(repo *repository.PurchaseRepository) *QueryService {
	return &QueryService{repo: repo, now: time.Now}
}

// Dispatch returns the owner's purchases for exactly one filter strategy.
func (s *QueryService) Dispatch(ctx context.Context, ownerID int64, req model.FilterRequest) ([]model.Purchase, error) {
	var purchases []model.Purchase
	var err error

	switch req.Mode {
	case model.FilterTemporal:
		from, to := windowRange(s.now(), req.Window)
		purchases, err = s.repo.ListByOwnerDateRange(ctx, ownerID, from, to)
	case model.FilterPriceOrder:
		purchases, err = s.repo.ListByOwnerPriceOrdered(ctx, ownerID, req.Direction == "ascending")
	case model.FilterFlavourRank:
		purchases, err = s.repo.ListByOwnerFlavourRanked(ctx, ownerID, req.Flavour)
	default:
		return nil, model.ErrChooseOneFilter
	}

	if err != nil {
		return nil, err
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	return purchases, nil
}

const dateLayout = "2006-01-02"

// windowRange computes the half-open ISO date range [from, to) covering the
// current calendar day, ISO week (Monday start), month or year. Any
// unrecognized window falls back to year.
func windowRange(now time.Time, window string) (string, string) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var from, to time.Time
	switch window {
	case "day":
		from = today
		to = today.AddDate(0, 0, 1)
	case "week":
		// Weekday() counts from Sunday; shift so the week starts on Monday.
		offset := (int(today.Weekday()) + 6) % 7
		from = today.AddDate(0, 0, -offset)
		to = from.AddDate(0, 0, 7)
	case "month":
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0)
	default: // year
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(1, 0, 0)
	}

	return from.Format(dateLayout), to.Format(dateLayout)
}
