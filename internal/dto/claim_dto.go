package dto

import "time"

type ClaimResponse struct {
	ID           uint       `json:"id"`
	Code         string     `json:"code"`
	UserID       uint       `json:"user_id"`
	BenefitID    uint       `json:"benefit_id"`
	BusinessID   uint       `json:"business_id"`
	SupplierID   uint       `json:"supplier_id"`
	CreatedAt    time.Time  `json:"created_at"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	ApprovedByID *uint      `json:"approved_by_id,omitempty"`
	BenefitName  string     `json:"benefit_name,omitempty"`
}

type ClaimListResponse struct {
	Claims []ClaimResponse `json:"claims"`
	Total  int64           `json:"total"`
}
