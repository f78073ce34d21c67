package handlers

import (
	"context"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/dimitrije/stockroom/internal/sse"
	"github.com/google/uuid"
)

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Profile, error)
	UpdateRole(ctx context.Context, orgID, id uuid.UUID, role models.Role) (*models.Profile, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*models.Profile, error)
	Remove(ctx context.Context, orgID, id uuid.UUID) error
}

// OrganizationServiceInterface defines the methods used by handlers from OrganizationService
type OrganizationServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	CreateWithAdmin(ctx context.Context, name string, owner *models.User, displayName string) (*models.Organization, *models.Profile, error)
}

// LocationServiceInterface defines the methods used by handlers from LocationService
type LocationServiceInterface interface {
	List(ctx context.Context, orgID uuid.UUID) ([]models.Location, error)
	ListManagedBy(ctx context.Context, orgID, managerID uuid.UUID) ([]models.Location, error)
	Create(ctx context.Context, orgID uuid.UUID, name string, description *string, managerID *uuid.UUID) (*models.Location, error)
	Update(ctx context.Context, orgID, id uuid.UUID, name *string, description *string, managerID *uuid.UUID) (*models.Location, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// ItemServiceInterface defines the methods used by handlers from ItemService
type ItemServiceInterface interface {
	List(ctx context.Context, orgID uuid.UUID) ([]models.Item, error)
	ListForManager(ctx context.Context, orgID, managerID uuid.UUID) ([]models.Item, error)
	ListLowStock(ctx context.Context, orgID uuid.UUID) ([]models.Item, error)
	Create(ctx context.Context, orgID uuid.UUID, in services.ItemInput) (*models.Item, error)
	Update(ctx context.Context, orgID, id uuid.UUID, in services.ItemInput) (*models.Item, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// RequestServiceInterface defines the methods used by handlers from RequestService
type RequestServiceInterface interface {
	Create(ctx context.Context, orgID, itemID, requestedBy uuid.UUID, quantity int, note *string) (*models.ItemRequest, error)
	List(ctx context.Context, orgID uuid.UUID, requestedBy *uuid.UUID) ([]models.ItemRequest, error)
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status models.RequestStatus, resolvedBy uuid.UUID) (*models.ItemRequest, error)
}

// DashboardServiceInterface defines the methods used by handlers from DashboardService
type DashboardServiceInterface interface {
	Summary(ctx context.Context, orgID uuid.UUID) (*models.DashboardSummary, error)
}

// InviteServiceInterface defines the methods used by handlers from InviteService
type InviteServiceInterface interface {
	Invite(ctx context.Context, inviter *models.Profile, emails []string) ([]services.InviteResult, error)
}

// EventPublisher fans inventory changes out to connected members.
type EventPublisher interface {
	Publish(orgID uuid.UUID, ev sse.Event) bool
}
