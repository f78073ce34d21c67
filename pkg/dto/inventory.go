package dto

import "github.com/google/uuid"

type CreateLocationRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	ManagerID   *uuid.UUID `json:"manager_id"`
}

type UpdateLocationRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ManagerID   *uuid.UUID `json:"manager_id"`
}

// ItemFieldsRequest is shared by item create and update; omitted fields are left unchanged on update.
type ItemFieldsRequest struct {
	LocationID  *uuid.UUID `json:"location_id"`
	Name        *string    `json:"name"`
	SKU         *string    `json:"sku"`
	Quantity    *int       `json:"quantity"`
	MinQuantity *int       `json:"min_quantity"`
	Unit        *string    `json:"unit"`
}

type CreateStockRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
	Note     *string   `json:"note"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status"`
}
