package models

import "time"

// Feedback stores user reports about perks, claims or the app itself.
type Feedback struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReporterID uint      `gorm:"not null;index" json:"reporter_id"`
	BenefitID  *uint     `gorm:"index" json:"benefit_id,omitempty"`
	ClaimID    *uint     `gorm:"index" json:"claim_id,omitempty"`
	Feedback   string    `gorm:"not null;type:text" json:"feedback"`
	Type       string    `gorm:"not null;size:50" json:"type"`
	Location   string    `gorm:"size:255" json:"location"`
	Mood       int       `gorm:"not null" json:"mood"`
	CreatedAt  time.Time `json:"created_at"`

	Reporter *User `gorm:"foreignKey:ReporterID" json:"-"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
