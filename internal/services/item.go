package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/stockroom/internal/database"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ItemService struct {
	db *database.DB
}

func NewItemService(db *database.DB) *ItemService {
	return &ItemService{db: db}
}

const itemColumns = `i.id, i.organization_id, i.location_id, i.name, i.sku, i.quantity, i.min_quantity, i.unit, i.created_at, i.updated_at`

// ItemInput carries the writable item fields. Nil pointers are left unchanged on update.
type ItemInput struct {
	LocationID  *uuid.UUID
	Name        *string
	SKU         *string
	Quantity    *int
	MinQuantity *int
	Unit        *string
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var i models.Item
	if err := row.Scan(&i.ID, &i.OrganizationID, &i.LocationID, &i.Name, &i.SKU, &i.Quantity, &i.MinQuantity, &i.Unit, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func collectItems(rows pgx.Rows) ([]models.Item, error) {
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

func (s *ItemService) List(ctx context.Context, orgID uuid.UUID) ([]models.Item, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM items i WHERE i.organization_id = $1
		ORDER BY i.name
	`, orgID)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

// ListForManager returns items stored at locations managed by the given profile.
func (s *ItemService) ListForManager(ctx context.Context, orgID, managerID uuid.UUID) ([]models.Item, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM items i
		JOIN locations l ON i.location_id = l.id
		WHERE i.organization_id = $1 AND l.manager_id = $2
		ORDER BY i.name
	`, orgID, managerID)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func (s *ItemService) ListLowStock(ctx context.Context, orgID uuid.UUID) ([]models.Item, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM items i WHERE i.organization_id = $1 AND i.quantity <= i.min_quantity
		ORDER BY i.quantity - i.min_quantity, i.name
	`, orgID)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func (s *ItemService) Create(ctx context.Context, orgID uuid.UUID, in ItemInput) (*models.Item, error) {
	unit := "pcs"
	if in.Unit != nil && *in.Unit != "" {
		unit = *in.Unit
	}
	qty, minQty := 0, 0
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if in.MinQuantity != nil {
		minQty = *in.MinQuantity
	}

	i, err := scanItem(s.db.Pool.QueryRow(ctx, `
		INSERT INTO items AS i (organization_id, location_id, name, sku, quantity, min_quantity, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+itemColumns,
		orgID, in.LocationID, *in.Name, in.SKU, qty, minQty, unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return i, nil
}

func (s *ItemService) Update(ctx context.Context, orgID, id uuid.UUID, in ItemInput) (*models.Item, error) {
	if in == (ItemInput{}) {
		return nil, ErrNoFieldsToUpdate
	}

	i, err := scanItem(s.db.Pool.QueryRow(ctx, `
		UPDATE items AS i SET
			location_id = COALESCE($1, i.location_id),
			name = COALESCE($2, i.name),
			sku = COALESCE($3, i.sku),
			quantity = COALESCE($4, i.quantity),
			min_quantity = COALESCE($5, i.min_quantity),
			unit = COALESCE($6, i.unit),
			updated_at = NOW()
		WHERE i.id = $7 AND i.organization_id = $8
		RETURNING `+itemColumns,
		in.LocationID, in.Name, in.SKU, in.Quantity, in.MinQuantity, in.Unit, id, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return i, nil
}

func (s *ItemService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM items WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
