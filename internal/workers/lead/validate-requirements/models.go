// internal/workers/lead/validate-requirements/models.go
package validaterequirements

import "freezone-advisor/internal/models"

type Input struct {
	Questionnaire map[string]interface{} `json:"questionnaire"`
}

type Output struct {
	Valid        bool                    `json:"valid"`
	Errors       []string                `json:"validationErrors,omitempty"`
	Email        string                  `json:"email,omitempty"`
	FullName     string                  `json:"fullName,omitempty"`
	Phone        string                  `json:"phone,omitempty"`
	Requirements *models.UserRequirements `json:"requirements,omitempty"`
}
