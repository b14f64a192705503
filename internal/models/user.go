package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null;size:255" json:"name"`
	Email    string `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Username string `gorm:"not null;size:100;uniqueIndex" json:"username"`
	Password string `gorm:"not null" json:"-"`

	// BusinessID is the business the user works for; AdminOfID marks the user
	// as administrator of exactly one business. CanVerify grants claim
	// verification independent of admin status.
	BusinessID *uint `gorm:"index" json:"business_id,omitempty"`
	AdminOfID  *uint `gorm:"index" json:"admin_of_id,omitempty"`
	CanVerify  bool  `gorm:"default:false" json:"can_verify"`

	// AuthorizationChanged is set whenever role or membership changes so that
	// already-issued sessions are forced through a refresh.
	AuthorizationChanged bool `gorm:"default:false" json:"authorization_changed"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	AdminOf  *Business `gorm:"foreignKey:AdminOfID" json:"admin_of,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsAdminOf reports whether the user administers the given business.
func (u *User) IsAdminOf(businessID uint) bool {
	return u.AdminOfID != nil && *u.AdminOfID == businessID
}
