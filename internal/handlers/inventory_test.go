package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/dimitrije/stockroom/internal/sse"
	"github.com/dimitrije/stockroom/internal/testutil"
	"github.com/dimitrije/stockroom/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type publishedEvent struct {
	orgID uuid.UUID
	event sse.Event
}

type recordingPublisher struct {
	events []publishedEvent
}

func (p *recordingPublisher) Publish(orgID uuid.UUID, ev sse.Event) bool {
	p.events = append(p.events, publishedEvent{orgID: orgID, event: ev})
	return true
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event.Type)
	}
	return out
}

func memberProfile(orgID uuid.UUID) *models.Profile {
	return &models.Profile{ID: uuid.New(), OrganizationID: orgID, Email: "member@example.com", Role: models.RoleUser}
}

func TestLocationHandler_List_ScopedByRole(t *testing.T) {
	admin := adminProfile()
	member := memberProfile(admin.OrganizationID)
	all := []models.Location{{ID: uuid.New(), Name: "Main"}, {ID: uuid.New(), Name: "Annex"}}
	managed := all[:1]

	mockProfiles := new(testutil.MockProfileService)
	mockLocations := new(testutil.MockLocationService)
	mockProfiles.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	mockProfiles.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	mockLocations.On("List", mock.Anything, admin.OrganizationID).Return(all, nil)
	mockLocations.On("ListManagedBy", mock.Anything, admin.OrganizationID, member.ID).Return(managed, nil)

	jwtSvc := testutil.TestJWTService()
	handler := NewLocationHandler(mockLocations)
	app := memberApp(jwtSvc, mockProfiles, false, http.MethodGet, "/locations", handler.List)

	var got []models.Location
	rec := testutil.DoJSON(t, app, http.MethodGet, "/locations", nil, testutil.GenerateTestToken(t, jwtSvc, admin.ID, admin.Email))
	require.Equal(t, http.StatusOK, rec.Code)
	testutil.ParseJSON(t, rec, &got)
	assert.Len(t, got, 2)

	rec = testutil.DoJSON(t, app, http.MethodGet, "/locations", nil, testutil.GenerateTestToken(t, jwtSvc, member.ID, member.Email))
	require.Equal(t, http.StatusOK, rec.Code)
	testutil.ParseJSON(t, rec, &got)
	assert.Len(t, got, 1)

	mockLocations.AssertExpectations(t)
}

func TestLocationHandler_Create(t *testing.T) {
	admin := adminProfile()
	mockProfiles := new(testutil.MockProfileService)
	mockLocations := new(testutil.MockLocationService)
	mockProfiles.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	loc := &models.Location{ID: uuid.New(), OrganizationID: admin.OrganizationID, Name: "Main"}
	mockLocations.On("Create", mock.Anything, admin.OrganizationID, "Main", (*string)(nil), (*uuid.UUID)(nil)).Return(loc, nil)

	jwtSvc := testutil.TestJWTService()
	handler := NewLocationHandler(mockLocations)
	app := memberApp(jwtSvc, mockProfiles, true, http.MethodPost, "/locations", handler.Create)
	token := testutil.GenerateTestToken(t, jwtSvc, admin.ID, admin.Email)

	rec := testutil.DoJSON(t, app, http.MethodPost, "/locations", dto.CreateLocationRequest{Name: "Main"}, token)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = testutil.DoJSON(t, app, http.MethodPost, "/locations", dto.CreateLocationRequest{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockLocations.AssertExpectations(t)
}

func TestLocationHandler_UpdateAndDelete_Errors(t *testing.T) {
	admin := adminProfile()
	id := uuid.New()
	mockProfiles := new(testutil.MockProfileService)
	mockLocations := new(testutil.MockLocationService)
	mockProfiles.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	mockLocations.On("Update", mock.Anything, admin.OrganizationID, id, (*string)(nil), (*string)(nil), (*uuid.UUID)(nil)).
		Return(nil, services.ErrNoFieldsToUpdate)
	mockLocations.On("Delete", mock.Anything, admin.OrganizationID, id).Return(services.ErrLocationNotFound)

	jwtSvc := testutil.TestJWTService()
	handler := NewLocationHandler(mockLocations)
	token := testutil.GenerateTestToken(t, jwtSvc, admin.ID, admin.Email)

	app := memberApp(jwtSvc, mockProfiles, true, http.MethodPatch, "/locations/:id", handler.Update)
	rec := testutil.DoJSON(t, app, http.MethodPatch, "/locations/"+id.String(), dto.UpdateLocationRequest{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	app = memberApp(jwtSvc, mockProfiles, true, http.MethodDelete, "/locations/:id", handler.Delete)
	rec = testutil.DoJSON(t, app, http.MethodDelete, "/locations/"+id.String(), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	mockLocations.AssertExpectations(t)
}

func TestItemHandler_List_ScopedByRole(t *testing.T) {
	admin := adminProfile()
	member := memberProfile(admin.OrganizationID)

	mockProfiles := new(testutil.MockProfileService)
	mockItems := new(testutil.MockItemService)
	mockProfiles.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	mockItems.On("ListForManager", mock.Anything, admin.OrganizationID, member.ID).
		Return([]models.Item{{ID: uuid.New(), Name: "Gloves", Quantity: 3, MinQuantity: 5, Unit: "box"}}, nil)

	jwtSvc := testutil.TestJWTService()
	handler := NewItemHandler(mockItems, &recordingPublisher{})
	app := memberApp(jwtSvc, mockProfiles, false, http.MethodGet, "/items", handler.List)

	rec := testutil.DoJSON(t, app, http.MethodGet, "/items", nil, testutil.GenerateTestToken(t, jwtSvc, member.ID, member.Email))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.Item
	testutil.ParseJSON(t, rec, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "Gloves", got[0].Name)

	mockItems.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	mockItems.AssertExpectations(t)
}

func TestItemHandler_LowStock(t *testing.T) {
	admin := adminProfile()
	mockProfiles := new(testutil.MockProfileService)
	mockItems := new(testutil.MockItemService)
	mockProfiles.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	mockItems.On("ListLowStock", mock.Anything, admin.OrganizationID).Return(nil, errors.New("boom"))

	jwtSvc := testutil.TestJWTService()
	handler := NewItemHandler(mockItems, &recordingPublisher{})
	app := memberApp(jwtSvc, mockProfiles, false, http.MethodGet, "/items/low-stock", handler.LowStock)

	rec := testutil.DoJSON(t, app, http.MethodGet, "/items/low-stock", nil, testutil.GenerateTestToken(t, jwtSvc, admin.ID, admin.Email))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestItemHandler_Create(t *testing.T) {
	admin := adminProfile()
	mockProfiles := new(testutil.MockProfileService)
	mockItems := new(testutil.MockItemService)
	mockProfiles.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	in := services.ItemInput{Name: ptr("Gloves"), Quantity: ptr(2), MinQuantity: ptr(5)}
	mockItems.On("Create", mock.Anything, admin.OrganizationID, in).
		Return(&models.Item{ID: uuid.New(), Name: "Gloves", Quantity: 2, MinQuantity: 5, Unit: "pcs"}, nil)

	jwtSvc := testutil.TestJWTService()
	events := &recordingPublisher{}
	handler := NewItemHandler(mockItems, events)
	app := memberApp(jwtSvc, mockProfiles, true, http.MethodPost, "/items", handler.Create)
	token := testutil.GenerateTestToken(t, jwtSvc, admin.ID, admin.Email)

	rec := testutil.DoJSON(t, app, http.MethodPost, "/items", dto.ItemFieldsRequest{Name: ptr("Gloves"), Quantity: ptr(2), MinQuantity: ptr(5)}, token)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{sse.EventItemChanged, sse.EventLowStock}, events.types())
	assert.Equal(t, admin.OrganizationID, events.events[0].orgID)

	tests := []struct {
		name string
		body dto.ItemFieldsRequest
	}{
		{"missing name", dto.ItemFieldsRequest{Quantity: ptr(1)}},
		{"empty name", dto.ItemFieldsRequest{Name: ptr("")}},
		{"negative quantity", dto.ItemFieldsRequest{Name: ptr("Gloves"), Quantity: ptr(-1)}},
		{"negative minimum", dto.ItemFieldsRequest{Name: ptr("Gloves"), MinQuantity: ptr(-2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.DoJSON(t, app, http.MethodPost, "/items", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	mockItems.AssertExpectations(t)
}

func TestItemHandler_UpdateAndDelete(t *testing.T) {
	admin := adminProfile()
	id := uuid.New()
	mockProfiles := new(testutil.MockProfileService)
	mockItems := new(testutil.MockItemService)
	mockProfiles.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	mockItems.On("Update", mock.Anything, admin.OrganizationID, id, services.ItemInput{MinQuantity: ptr(4)}).
		Return(nil, services.ErrItemNotFound)
	mockItems.On("Delete", mock.Anything, admin.OrganizationID, id).Return(nil)

	jwtSvc := testutil.TestJWTService()
	events := &recordingPublisher{}
	handler := NewItemHandler(mockItems, events)
	token := testutil.GenerateTestToken(t, jwtSvc, admin.ID, admin.Email)

	app := memberApp(jwtSvc, mockProfiles, true, http.MethodPatch, "/items/:id", handler.Update)
	rec := testutil.DoJSON(t, app, http.MethodPatch, "/items/"+id.String(), dto.ItemFieldsRequest{MinQuantity: ptr(4)}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, events.events)

	app = memberApp(jwtSvc, mockProfiles, true, http.MethodDelete, "/items/:id", handler.Delete)
	rec = testutil.DoJSON(t, app, http.MethodDelete, "/items/"+id.String(), nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, events.events, 1)
	assert.Equal(t, sse.EventItemDeleted, events.events[0].event.Type)
	assert.Equal(t, sse.ItemDeletedEvent{ItemID: id, DeletedBy: admin.ID}, events.events[0].event.Data)

	mockItems.AssertExpectations(t)
}

func TestRequestHandler_Create(t *testing.T) {
	member := memberProfile(uuid.New())
	itemID := uuid.New()

	mockProfiles := new(testutil.MockProfileService)
	mockRequests := new(testutil.MockRequestService)
	mockProfiles.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	mockRequests.On("Create", mock.Anything, member.OrganizationID, itemID, member.ID, 5, ptr("urgent")).
		Return(&models.ItemRequest{ID: uuid.New(), ItemID: itemID, Quantity: 5, Status: models.RequestPending}, nil)

	jwtSvc := testutil.TestJWTService()
	events := &recordingPublisher{}
	handler := NewRequestHandler(mockRequests, events)
	app := memberApp(jwtSvc, mockProfiles, false, http.MethodPost, "/requests", handler.Create)
	token := testutil.GenerateTestToken(t, jwtSvc, member.ID, member.Email)

	rec := testutil.DoJSON(t, app, http.MethodPost, "/requests", dto.CreateStockRequest{ItemID: itemID, Quantity: 5, Note: ptr("urgent")}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.ItemRequest
	testutil.ParseJSON(t, rec, &got)
	assert.Equal(t, models.RequestPending, got.Status)
	assert.Equal(t, []string{sse.EventRequestCreated}, events.types())

	rec = testutil.DoJSON(t, app, http.MethodPost, "/requests", dto.CreateStockRequest{ItemID: itemID, Quantity: 0}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testutil.DoJSON(t, app, http.MethodPost, "/requests", dto.CreateStockRequest{Quantity: 1}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockRequests.AssertExpectations(t)
}

func TestRequestHandler_List_UserSeesOwn(t *testing.T) {
	member := memberProfile(uuid.New())

	mockProfiles := new(testutil.MockProfileService)
	mockRequests := new(testutil.MockRequestService)
	mockProfiles.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	mockRequests.On("List", mock.Anything, member.OrganizationID, &member.ID).Return([]models.ItemRequest{}, nil)

	jwtSvc := testutil.TestJWTService()
	handler := NewRequestHandler(mockRequests, &recordingPublisher{})
	app := memberApp(jwtSvc, mockProfiles, false, http.MethodGet, "/requests", handler.List)

	rec := testutil.DoJSON(t, app, http.MethodGet, "/requests", nil, testutil.GenerateTestToken(t, jwtSvc, member.ID, member.Email))
	assert.Equal(t, http.StatusOK, rec.Code)

	mockRequests.AssertExpectations(t)
}

func TestRequestHandler_UpdateStatus(t *testing.T) {
	admin := adminProfile()
	id := uuid.New()

	tests := []struct {
		name   string
		status string
		err    error
		want   int
	}{
		{"fulfilled", "fulfilled", nil, http.StatusOK},
		{"invalid", "pending", services.ErrInvalidStatus, http.StatusBadRequest},
		{"resolved", "approved", services.ErrRequestResolved, http.StatusBadRequest},
		{"missing", "rejected", services.ErrRequestNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProfiles := new(testutil.MockProfileService)
			mockRequests := new(testutil.MockRequestService)
			mockProfiles.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

			call := mockRequests.On("UpdateStatus", mock.Anything, admin.OrganizationID, id, models.RequestStatus(tt.status), admin.ID)
			if tt.err != nil {
				call.Return(nil, tt.err)
			} else {
				call.Return(&models.ItemRequest{ID: id, Status: models.RequestFulfilled, ResolvedBy: &admin.ID}, nil)
			}

			jwtSvc := testutil.TestJWTService()
			handler := NewRequestHandler(mockRequests, &recordingPublisher{})
			app := memberApp(jwtSvc, mockProfiles, true, http.MethodPatch, "/requests/:id/status", handler.UpdateStatus)

			rec := testutil.DoJSON(t, app, http.MethodPatch, "/requests/"+id.String()+"/status",
				dto.UpdateRequestStatusRequest{Status: tt.status}, testutil.GenerateTestToken(t, jwtSvc, admin.ID, admin.Email))

			assert.Equal(t, tt.want, rec.Code)
			mockRequests.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_Summary(t *testing.T) {
	member := memberProfile(uuid.New())

	mockProfiles := new(testutil.MockProfileService)
	mockDashboard := new(testutil.MockDashboardService)
	mockProfiles.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	mockDashboard.On("Summary", mock.Anything, member.OrganizationID).
		Return(&models.DashboardSummary{Items: 12, LowStockItems: 2, Locations: 3, PendingRequests: 1}, nil)

	jwtSvc := testutil.TestJWTService()
	handler := NewDashboardHandler(mockDashboard)
	app := memberApp(jwtSvc, mockProfiles, false, http.MethodGet, "/dashboard", handler.Summary)

	rec := testutil.DoJSON(t, app, http.MethodGet, "/dashboard", nil, testutil.GenerateTestToken(t, jwtSvc, member.ID, member.Email))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.DashboardSummary
	testutil.ParseJSON(t, rec, &got)
	assert.Equal(t, 2, got.LowStockItems)
	assert.Equal(t, 1, got.PendingRequests)
}
