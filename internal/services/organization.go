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

type OrganizationService struct {
	db *database.DB
}

func NewOrganizationService(db *database.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

func (s *OrganizationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, created_at FROM organizations WHERE id = $1
	`, id).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

// CreateWithAdmin creates an organization and makes the caller its first admin in one transaction.
func (s *OrganizationService) CreateWithAdmin(ctx context.Context, name string, owner *models.User, displayName string) (*models.Organization, *models.Profile, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var org models.Organization
	err = tx.QueryRow(ctx, `
		INSERT INTO organizations (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`, name).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create organization: %w", err)
	}

	var dn *string
	if displayName != "" {
		dn = &displayName
	}
	profile, err := scanProfile(tx.QueryRow(ctx, `
		INSERT INTO user_profiles (id, organization_id, email, display_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+profileColumns,
		owner.ID, org.ID, owner.Email, dn, string(models.RoleAdmin)))
	if isUniqueViolation(err) {
		return nil, nil, ErrProfileExists
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create admin profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &org, profile, nil
}
