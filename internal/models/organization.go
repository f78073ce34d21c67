package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant boundary; every other record is scoped to one.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
