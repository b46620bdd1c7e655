// internal/workers/lead/create-lead-record/models.go
package createleadrecord

import "freezone-advisor/internal/models"

type Input struct {
	Email        string                   `json:"email"`
	FullName     string                   `json:"fullName"`
	Phone        string                   `json:"phone,omitempty"`
	Requirements *models.UserRequirements `json:"requirements"`
}

type Output struct {
	LeadID    string `json:"leadId"`
	Status    string `json:"leadStatus"`
	Duplicate bool   `json:"duplicate"`
}
