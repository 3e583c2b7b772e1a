package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bobalog/bobalog-go/internal/model"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

const purchaseColumns = `id, owner_id, flavour, quantity, price, location, date`

// PurchaseRepository handles purchase persistence and owns the ordering
// semantics of every retrieval path.
type PurchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new PurchaseRepository.
func NewPurchaseRepository(db *sql.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create inserts a new purchase and sets the generated ID on the struct.
func (r *PurchaseRepository) Create(ctx context.Context, p *model.Purchase) error {
	query := `INSERT INTO purchases (owner_id, flavour, quantity, price, location, date)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		p.OwnerID, p.Flavour, p.Quantity, p.Price, p.Location, p.Date)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	p.ID = id
	return nil
}

// GetByID retrieves a single purchase scoped to its owner.
func (r *PurchaseRepository) GetByID(ctx context.Context, ownerID, id int64) (*model.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = ? AND owner_id = ?`

	p := &model.Purchase{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&p.ID, &p.OwnerID, &p.Flavour, &p.Quantity, &p.Price, &p.Location, &p.Date,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}

	return p, nil
}

// Update replaces every mutable field of the addressed purchase. The row is
// only touched when it belongs to ownerID.
func (r *PurchaseRepository) Update(ctx context.Context, p *model.Purchase) error {
	query := `UPDATE purchases SET flavour = ?, quantity = ?, price = ?, location = ?, date = ?
		WHERE id = ? AND owner_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		p.Flavour, p.Quantity, p.Price, p.Location, p.Date, p.ID, p.OwnerID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPurchaseNotFound
	}

	return nil
}

// Delete removes the addressed purchase when it belongs to ownerID.
func (r *PurchaseRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query := `DELETE FROM purchases WHERE id = ? AND owner_id = ?`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPurchaseNotFound
	}

	return nil
}

// ListByOwner retrieves the full log for an owner, most recent date first,
// ties broken alphabetically by flavour.
func (r *PurchaseRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE owner_id = ? ORDER BY date DESC, flavour ASC`

	return r.queryPurchases(ctx, query, ownerID)
}

// ListByOwnerDateRange retrieves an owner's purchases whose ISO date string
// falls in the half-open range [from, to). Rows with an empty date never
// match. Storage order.
func (r *PurchaseRepository) ListByOwnerDateRange(ctx context.Context, ownerID int64, from, to string) ([]model.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE owner_id = ? AND date >= ? AND date < ? ORDER BY id ASC`

	return r.queryPurchases(ctx, query, ownerID, from, to)
}

// ListByOwnerPriceOrdered retrieves an owner's purchases ordered by price in
// the requested direction, ties broken alphabetically by flavour.
func (r *PurchaseRepository) ListByOwnerPriceOrdered(ctx context.Context, ownerID int64, ascending bool) ([]model.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE owner_id = ? ORDER BY price DESC, flavour ASC`
	if ascending {
		query = `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE owner_id = ? ORDER BY price ASC, flavour ASC`
	}

	return r.queryPurchases(ctx, query, ownerID)
}

// ListByOwnerFlavourRanked retrieves an owner's purchases of one flavour,
// entries with a known location first, cheapest first within each group.
func (r *PurchaseRepository) ListByOwnerFlavourRanked(ctx context.Context, ownerID int64, flavour string) ([]model.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE owner_id = ? AND flavour = ?
		ORDER BY (location = '') ASC, price ASC, flavour ASC, location ASC`

	return r.queryPurchases(ctx, query, ownerID, flavour)
}

// GlobalRanking aggregates purchases across all owners: quantities summed per
// flavour, top 7 by total descending, ties broken alphabetically by flavour.
func (r *PurchaseRepository) GlobalRanking(ctx context.Context) ([]model.FlavourTotal, error) {
	query := `SELECT flavour, SUM(quantity) AS total FROM purchases
		GROUP BY flavour ORDER BY total DESC, flavour ASC LIMIT 7`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []model.FlavourTotal
	for rows.Next() {
		var ft model.FlavourTotal
		if err := rows.Scan(&ft.Flavour, &ft.TotalCount); err != nil {
			return nil, err
		}
		totals = append(totals, ft)
	}

	return totals, rows.Err()
}

// DeleteAll removes every purchase. Only reachable through the development
// reset endpoints.
func (r *PurchaseRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM purchases`)
	return err
}

func (r *PurchaseRepository) queryPurchases(ctx context.Context, query string, args ...any) ([]model.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Flavour, &p.Quantity, &p.Price, &p.Location, &p.Date,
		); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}

	return purchases, rows.Err()
}
