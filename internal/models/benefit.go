package models

import (
	"time"
)

type Benefit struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;size:255;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	SupplierID  uint   `gorm:"not null;index" json:"supplier_id"`

	IsPrivate bool `gorm:"default:false" json:"is_private"`
	IsActive  bool `gorm:"default:true;index" json:"is_active"`

	// UseLimit bounds total claims across all users; UseLimitPerUser bounds
	// claims by a single user. Nil means unlimited.
	UseLimit        *int `json:"use_limit,omitempty"`
	UseLimitPerUser *int `json:"use_limit_per_user,omitempty"`

	StartsAt   *time.Time `json:"starts_at,omitempty"`
	FinishesAt *time.Time `json:"finishes_at,omitempty"`

	ClaimAmount int `gorm:"default:0" json:"claim_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Supplier   *Business  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Categories []Category `gorm:"many2many:benefit_categories" json:"categories,omitempty"`
	Photos     []Photo    `gorm:"many2many:benefit_photos" json:"photos,omitempty"`

	// Beneficiaries are the businesses that acquired the perk; AvailableFor
	// lists the businesses allowed to acquire it while it is private.
	Beneficiaries []Business `gorm:"many2many:benefit_beneficiaries;joinForeignKey:BenefitID;joinReferences:BusinessID" json:"-"`
	AvailableFor  []Business `gorm:"many2many:benefit_available_for;joinForeignKey:BenefitID;joinReferences:BusinessID" json:"-"`
}

func (Benefit) TableName() string {
	return "benefits"
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

type Photo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (Photo) TableName() string {
	return "photos"
}
