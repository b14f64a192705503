package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Business struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Name                 string         `gorm:"not null;size:255;uniqueIndex" json:"name"`
	Email                string         `gorm:"not null;size:255" json:"email"`
	About                string         `gorm:"type:text" json:"about"`
	LogoURL              string         `gorm:"size:500" json:"logo_url"`
	PaidMembership       bool           `gorm:"default:false;index" json:"paid_membership"`
	PaypalSubscriptionID *string        `gorm:"size:255;index" json:"paypal_subscription_id,omitempty"`
	AllowedEmployeeEmails datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"allowed_employee_emails"`
	ClaimAmount          int            `gorm:"default:0" json:"claim_amount"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`

	Employees    []User    `gorm:"foreignKey:BusinessID" json:"-"`
	Benefits     []Benefit `gorm:"foreignKey:SupplierID" json:"-"`
	// BenefitsFrom is the inverse side of Benefit.Beneficiaries.
	BenefitsFrom []Benefit `gorm:"many2many:benefit_beneficiaries;joinForeignKey:BusinessID;joinReferences:BenefitID" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}

// AllowedEmails decodes the allowed_employee_emails JSON column.
func (b *Business) AllowedEmails() []string {
	var emails []string
	if len(b.AllowedEmployeeEmails) == 0 {
		return emails
	}
	_ = json.Unmarshal(b.AllowedEmployeeEmails, &emails)
	return emails
}
