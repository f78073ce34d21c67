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

type RequestService struct {
	db *database.DB
}

func NewRequestService(db *database.DB) *RequestService {
	return &RequestService{db: db}
}

const requestColumns = `id, organization_id, item_id, requested_by, quantity, note, status, resolved_by, created_at, updated_at`

func scanRequest(row pgx.Row) (*models.ItemRequest, error) {
	var r models.ItemRequest
	var status string
	if err := row.Scan(&r.ID, &r.OrganizationID, &r.ItemID, &r.RequestedBy, &r.Quantity, &r.Note, &status, &r.ResolvedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Status = models.RequestStatus(status)
	return &r, nil
}

// Create files a restock request. The item must belong to the organization.
func (s *RequestService) Create(ctx context.Context, orgID, itemID, requestedBy uuid.UUID, quantity int, note *string) (*models.ItemRequest, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	r, err := scanRequest(s.db.Pool.QueryRow(ctx, `
		INSERT INTO item_requests (organization_id, item_id, requested_by, quantity, note)
		SELECT i.organization_id, i.id, $3, $4, $5
		FROM items i WHERE i.id = $2 AND i.organization_id = $1
		RETURNING `+requestColumns,
		orgID, itemID, requestedBy, quantity, note))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return r, nil
}

// List returns the organization's requests, newest first. A non-nil requestedBy limits
// the result to that member's own requests.
func (s *RequestService) List(ctx context.Context, orgID uuid.UUID, requestedBy *uuid.UUID) ([]models.ItemRequest, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM item_requests
		WHERE organization_id = $1 AND ($2::uuid IS NULL OR requested_by = $2)
		ORDER BY created_at DESC
	`, orgID, requestedBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.ItemRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

func canTransition(from, to models.RequestStatus) bool {
	switch from {
	case models.RequestPending:
		return to != models.RequestPending
	case models.RequestApproved:
		return to == models.RequestFulfilled || to == models.RequestRejected
	}
	return false
}

// UpdateStatus resolves a request. Fulfilling adds the requested quantity to the item
// stock in the same transaction.
func (s *RequestService) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status models.RequestStatus, resolvedBy uuid.UUID) (*models.ItemRequest, error) {
	if !status.Valid() || status == models.RequestPending {
		return nil, ErrInvalidStatus
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx, `
		SELECT status FROM item_requests
		WHERE id = $1 AND organization_id = $2
		FOR UPDATE
	`, id, orgID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock request: %w", err)
	}
	if !canTransition(models.RequestStatus(current), status) {
		return nil, ErrRequestResolved
	}

	r, err := scanRequest(tx.QueryRow(ctx, `
		UPDATE item_requests SET status = $1, resolved_by = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+requestColumns,
		string(status), resolvedBy, id))
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	if status == models.RequestFulfilled {
		tag, err := tx.Exec(ctx, `
			UPDATE items SET quantity = quantity + $1, updated_at = NOW()
			WHERE id = $2 AND organization_id = $3
		`, r.Quantity, r.ItemID, orgID)
		if err != nil {
			return nil, fmt.Errorf("failed to restock item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrItemNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r, nil
}
