package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claim records an employee redeeming an acquired perk. Rows are append-only;
// only verification sets approved_at.
type Claim struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"code"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	BenefitID  uint      `gorm:"not null;index" json:"benefit_id"`
	BusinessID uint      `gorm:"not null;index" json:"business_id"`
	SupplierID uint      `gorm:"not null;index" json:"supplier_id"`

	CreatedAt    time.Time  `json:"created_at"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	ApprovedByID *uint      `json:"approved_by_id,omitempty"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Benefit  *Benefit  `gorm:"foreignKey:BenefitID" json:"benefit,omitempty"`
	Business *Business `gorm:"foreignKey:BusinessID" json:"-"`
	Supplier *Business `gorm:"foreignKey:SupplierID" json:"-"`
}

func (Claim) TableName() string {
	return "claims"
}

func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.Code == uuid.Nil {
		c.Code = uuid.New()
	}
	return nil
}
