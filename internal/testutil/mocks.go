package testutil

import (
	"context"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProfileService mocks the ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Profile, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateRole(ctx context.Context, orgID, id uuid.UUID, role models.Role) (*models.Profile, error) {
	args := m.Called(ctx, orgID, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*models.Profile, error) {
	args := m.Called(ctx, id, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Remove(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

// MockOrganizationService mocks the OrganizationService
type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationService) CreateWithAdmin(ctx context.Context, name string, owner *models.User, displayName string) (*models.Organization, *models.Profile, error) {
	args := m.Called(ctx, name, owner, displayName)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Organization), args.Get(1).(*models.Profile), args.Error(2)
}

// MockLocationService mocks the LocationService
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) List(ctx context.Context, orgID uuid.UUID) ([]models.Location, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Location), args.Error(1)
}

func (m *MockLocationService) ListManagedBy(ctx context.Context, orgID, managerID uuid.UUID) ([]models.Location, error) {
	args := m.Called(ctx, orgID, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Location), args.Error(1)
}

func (m *MockLocationService) Create(ctx context.Context, orgID uuid.UUID, name string, description *string, managerID *uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, orgID, name, description, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockLocationService) Update(ctx context.Context, orgID, id uuid.UUID, name *string, description *string, managerID *uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, orgID, id, name, description, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockLocationService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

// MockItemService mocks the ItemService
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) List(ctx context.Context, orgID uuid.UUID) ([]models.Item, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) ListForManager(ctx context.Context, orgID, managerID uuid.UUID) ([]models.Item, error) {
	args := m.Called(ctx, orgID, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) ListLowStock(ctx context.Context, orgID uuid.UUID) ([]models.Item, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) Create(ctx context.Context, orgID uuid.UUID, in services.ItemInput) (*models.Item, error) {
	args := m.Called(ctx, orgID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, orgID, id uuid.UUID, in services.ItemInput) (*models.Item, error) {
	args := m.Called(ctx, orgID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

// MockRequestService mocks the RequestService
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) Create(ctx context.Context, orgID, itemID, requestedBy uuid.UUID, quantity int, note *string) (*models.ItemRequest, error) {
	args := m.Called(ctx, orgID, itemID, requestedBy, quantity, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemRequest), args.Error(1)
}

func (m *MockRequestService) List(ctx context.Context, orgID uuid.UUID, requestedBy *uuid.UUID) ([]models.ItemRequest, error) {
	args := m.Called(ctx, orgID, requestedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ItemRequest), args.Error(1)
}

func (m *MockRequestService) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status models.RequestStatus, resolvedBy uuid.UUID) (*models.ItemRequest, error) {
	args := m.Called(ctx, orgID, id, status, resolvedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemRequest), args.Error(1)
}

// MockDashboardService mocks the DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context, orgID uuid.UUID) (*models.DashboardSummary, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSummary), args.Error(1)
}

// MockInviteService mocks the InviteService
type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) Invite(ctx context.Context, inviter *models.Profile, emails []string) ([]services.InviteResult, error) {
	args := m.Called(ctx, inviter, emails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.InviteResult), args.Error(1)
}
