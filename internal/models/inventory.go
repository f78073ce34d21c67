package models

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	ManagerID      *uuid.UUID `json:"manager_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Item struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	LocationID     *uuid.UUID `json:"location_id,omitempty"`
	Name           string     `json:"name"`
	SKU            *string    `json:"sku,omitempty"`
	Quantity       int        `json:"quantity"`
	MinQuantity    int        `json:"min_quantity"`
	Unit           string     `json:"unit"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestFulfilled RequestStatus = "fulfilled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestFulfilled:
		return true
	}
	return false
}

// ItemRequest is a restock request raised by a member against an item.
type ItemRequest struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	ItemID         uuid.UUID     `json:"item_id"`
	RequestedBy    uuid.UUID     `json:"requested_by"`
	Quantity       int           `json:"quantity"`
	Note           *string       `json:"note,omitempty"`
	Status         RequestStatus `json:"status"`
	ResolvedBy     *uuid.UUID    `json:"resolved_by,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type DashboardSummary struct {
	Items           int `json:"items"`
	LowStockItems   int `json:"low_stock_items"`
	Locations       int `json:"locations"`
	PendingRequests int `json:"pending_requests"`
}
