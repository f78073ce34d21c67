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

type LocationService struct {
	db *database.DB
}

func NewLocationService(db *database.DB) *LocationService {
	return &LocationService{db: db}
}

const locationColumns = `id, organization_id, name, description, manager_id, created_at, updated_at`

func scanLocation(row pgx.Row) (*models.Location, error) {
	var l models.Location
	if err := row.Scan(&l.ID, &l.OrganizationID, &l.Name, &l.Description, &l.ManagerID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LocationService) collect(rows pgx.Rows) ([]models.Location, error) {
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *l)
	}
	return locations, rows.Err()
}

func (s *LocationService) List(ctx context.Context, orgID uuid.UUID) ([]models.Location, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+locationColumns+`
		FROM locations WHERE organization_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

// ListManagedBy returns the locations a regular user is responsible for.
func (s *LocationService) ListManagedBy(ctx context.Context, orgID, managerID uuid.UUID) ([]models.Location, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+locationColumns+`
		FROM locations WHERE organization_id = $1 AND manager_id = $2
		ORDER BY name
	`, orgID, managerID)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

func (s *LocationService) Create(ctx context.Context, orgID uuid.UUID, name string, description *string, managerID *uuid.UUID) (*models.Location, error) {
	l, err := scanLocation(s.db.Pool.QueryRow(ctx, `
		INSERT INTO locations (organization_id, name, description, manager_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+locationColumns,
		orgID, name, description, managerID))
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return l, nil
}

func (s *LocationService) Update(ctx context.Context, orgID, id uuid.UUID, name *string, description *string, managerID *uuid.UUID) (*models.Location, error) {
	if name == nil && description == nil && managerID == nil {
		return nil, ErrNoFieldsToUpdate
	}

	l, err := scanLocation(s.db.Pool.QueryRow(ctx, `
		UPDATE locations SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			manager_id = COALESCE($3, manager_id),
			updated_at = NOW()
		WHERE id = $4 AND organization_id = $5
		RETURNING `+locationColumns,
		name, description, managerID, id, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return l, nil
}

func (s *LocationService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM locations WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLocationNotFound
	}
	return nil
}
