package models

import "time"

// Notification is the persisted record of an employee notification dispatched
// through the task queue. Delivery itself happens in the worker.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Email     string     `gorm:"not null;size:255" json:"email"`
	Kind      string     `gorm:"not null;size:50" json:"kind"`
	Subject   string     `gorm:"not null;size:255" json:"subject"`
	Body      string     `gorm:"type:text" json:"body"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
