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

type ProfileService struct {
	db *database.DB
}

func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `id, organization_id, email, display_name, role, created_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	var role string
	if err := row.Scan(&p.ID, &p.OrganizationID, &p.Email, &p.DisplayName, &role, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Role = models.Role(role)
	return &p, nil
}

// GetByID returns ErrProfileNotFound only when the row is absent; other failures are wrapped.
func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM user_profiles WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	created, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		INSERT INTO user_profiles (id, organization_id, email, display_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+profileColumns,
		p.ID, p.OrganizationID, p.Email, p.DisplayName, string(p.Role)))
	if isUniqueViolation(err) {
		return nil, ErrProfileExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, nil
}

func (s *ProfileService) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Profile, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM user_profiles
		WHERE organization_id = $1
		ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *ProfileService) UpdateRole(ctx context.Context, orgID, id uuid.UUID, role models.Role) (*models.Profile, error) {
	p, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		UPDATE user_profiles SET role = $1
		WHERE id = $2 AND organization_id = $3
		RETURNING `+profileColumns,
		string(role), id, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return p, nil
}

func (s *ProfileService) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*models.Profile, error) {
	p, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		UPDATE user_profiles SET display_name = $1
		WHERE id = $2
		RETURNING `+profileColumns,
		displayName, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) Remove(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM user_profiles WHERE id = $1 AND organization_id = $2
	`, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// PromoteByEmail is used by the promote-admin utility.
func (s *ProfileService) PromoteByEmail(ctx context.Context, email string) (int64, error) {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE user_profiles SET role = $1 WHERE lower(email) = lower($2)
	`, string(models.RoleAdmin), email)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
