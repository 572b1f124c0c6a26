package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/pagination"
)

// ItemDTO is the transport shape of a catalog listing.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Images      []string        `json:"images"`
	FabricTypes []string        `json:"fabric_types"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FabricDTO is the transport shape of a fabric type.
type FabricDTO struct {
	ID       uuid.UUID `json:"id"`
	Label    string    `json:"label"`
	IsActive bool      `json:"is_active"`
}

// ItemListFilters describe the supported filter knobs for the browse endpoint.
type ItemListFilters struct {
	Category *string `json:"category,omitempty"`
	Query    string  `json:"q,omitempty"`
}

// ListItemsInput captures the inputs needed to paginate and filter listings.
type ListItemsInput struct {
	Filters         ItemListFilters
	Pagination      pagination.Params
	IncludeInactive bool
}

// ListItemsOutput returns one page of listings plus the next cursor.
type ListItemsOutput struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// UpsertItemInput is the admin payload for creating or updating a listing.
type UpsertItemInput struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category" validate:"required"`
	BasePrice   decimal.Decimal `json:"base_price" validate:"required"`
	Images      []string        `json:"images"`
	FabricTypes []string        `json:"fabric_types"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func itemFromModel(m *models.Item) ItemDTO {
	return ItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		BasePrice:   m.BasePrice,
		Images:      append([]string(nil), m.Images...),
		FabricTypes: append([]string(nil), m.FabricTypes...),
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fabricFromModel(m *models.Fabric) FabricDTO {
	return FabricDTO{
		ID:       m.ID,
		Label:    m.Label,
		IsActive: m.IsActive,
	}
}
