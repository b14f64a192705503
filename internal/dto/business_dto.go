package dto

type CreateBusinessRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	About string `json:"about"`
}

type UpdateBusinessRequest struct {
	Name                  *string  `json:"name,omitempty"`
	Email                 *string  `json:"email,omitempty"`
	About                 *string  `json:"about,omitempty"`
	LogoURL               *string  `json:"logo_url,omitempty"`
	AllowedEmployeeEmails []string `json:"allowed_employee_emails,omitempty"`
}

type UpdateEmployeeRoleRequest struct {
	Role string `json:"role"`
}

type BusinessResponse struct {
	ID                    uint     `json:"id"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	About                 string   `json:"about"`
	LogoURL               string   `json:"logo_url"`
	PaidMembership        bool     `json:"paid_membership"`
	ClaimAmount           int      `json:"claim_amount"`
	AllowedEmployeeEmails []string `json:"allowed_employee_emails,omitempty"`
}
