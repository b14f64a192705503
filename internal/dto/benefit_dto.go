package dto

import "time"

type CreateBenefitRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	IsPrivate       bool       `json:"is_private"`
	UseLimit        *int       `json:"use_limit,omitempty"`
	UseLimitPerUser *int       `json:"use_limit_per_user,omitempty"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	FinishesAt      *time.Time `json:"finishes_at,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
	PhotoURLs       []string   `json:"photo_urls,omitempty"`
	AvailableFor    []uint     `json:"available_for,omitempty"`
}

type UpdateBenefitRequest struct {
	Name            *string    `json:"name,omitempty"`
	Description     *string    `json:"description,omitempty"`
	IsPrivate       *bool      `json:"is_private,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"`
	UseLimit        *int       `json:"use_limit,omitempty"`
	UseLimitPerUser *int       `json:"use_limit_per_user,omitempty"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	FinishesAt      *time.Time `json:"finishes_at,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
	AvailableFor    []uint     `json:"available_for,omitempty"`
}

// BenefitListQuery mirrors the query params of the listing endpoint. Privacy
// and Acquired are tri-state: "true", "false" or absent. StartsAt is an
// RFC 3339 timestamp or a YYYY-MM-DD date.
type BenefitListQuery struct {
	SearchString string `query:"searchString"`
	Skip         int    `query:"skip"`
	Take         int    `query:"take"`
	Cursor       uint   `query:"cursor"`
	Category     string `query:"category"`
	Privacy      string `query:"privacy"`
	Acquired     string `query:"acquired"`
	StartsAt     string `query:"startsAt"`
}

type BenefitResponse struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	SupplierID      uint       `json:"supplier_id"`
	IsPrivate       bool       `json:"is_private"`
	IsActive        bool       `json:"is_active"`
	UseLimit        *int       `json:"use_limit,omitempty"`
	UseLimitPerUser *int       `json:"use_limit_per_user,omitempty"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	FinishesAt      *time.Time `json:"finishes_at,omitempty"`
	ClaimAmount     int        `json:"claim_amount"`
	Categories      []string   `json:"categories,omitempty"`
	PhotoURLs       []string   `json:"photo_urls,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type BenefitListResponse struct {
	Benefits []BenefitResponse `json:"benefits"`
	Total    int64             `json:"total"`
	// NextCursor is the last returned benefit id, 0 when the page is empty.
	NextCursor uint `json:"next_cursor"`
}
