package dto

import "time"

type CreateFeedbackRequest struct {
	BenefitID *uint  `json:"benefit_id,omitempty"`
	ClaimID   *uint  `json:"claim_id,omitempty"`
	Feedback  string `json:"feedback"`
	Type      string `json:"type"`
	Location  string `json:"location"`
	Mood      int    `json:"mood"`
}

type FeedbackResponse struct {
	ID         uint      `json:"id"`
	ReporterID uint      `json:"reporter_id"`
	BenefitID  *uint     `json:"benefit_id,omitempty"`
	ClaimID    *uint     `json:"claim_id,omitempty"`
	Feedback   string    `json:"feedback"`
	Type       string    `json:"type"`
	Location   string    `json:"location"`
	Mood       int       `json:"mood"`
	CreatedAt  time.Time `json:"created_at"`
}
