// Package validation validates questionnaire submissions against a JSON schema.
package validation

import (
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

// requirementsSchema is the contract for the business-setup questionnaire.
// Budget fields are optional; scoring degrades gracefully without them.
const requirementsSchema = `{
  "type": "object",
  "properties": {
    "fullName": {"type": "string", "minLength": 2, "maxLength": 120},
    "email": {"type": "string", "minLength": 5, "maxLength": 254},
    "phone": {"type": "string", "maxLength": 32},
    "businessType": {"type": "string", "maxLength": 120},
    "businessActivities": {"type": "array", "items": {"type": "string"}},
    "primaryActivity": {"type": "string", "maxLength": 200},
    "secondaryActivities": {"type": "array", "items": {"type": "string"}},
    "visaCount": {"type": "integer", "minimum": 0, "maximum": 500},
    "idealBudget": {"type": "number", "minimum": 0},
    "budget": {"type": "number", "minimum": 0},
    "maxBudget": {"type": "number", "minimum": 0},
    "preferredLocation": {"type": "string", "maxLength": 120},
    "officePreference": {"type": "string", "maxLength": 120},
    "timeline": {"type": "string", "maxLength": 120}
  },
  "required": ["fullName", "email"],
  "additionalProperties": true
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var schemaLoader = gojsonschema.NewStringLoader(requirementsSchema)

// ValidateRequirements checks a raw questionnaire payload against the schema.
func ValidateRequirements(input map[string]interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(input))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, resErr := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   resErr.Field(),
			Message: resErr.Description(),
			Code:    resErr.Type(),
		})
	}

	// Format checks gojsonschema does not cover with the draft-04 keywords we use
	if email, ok := input["email"].(string); ok && email != "" && !ValidateEmail(email) {
		out.Valid = false
		out.Errors = append(out.Errors, ValidationError{
			Field:   "email",
			Message: "invalid email format",
			Code:    "INVALID_EMAIL",
		})
	}
	if phone, ok := input["phone"].(string); ok && phone != "" && !ValidatePhone(phone) {
		out.Valid = false
		out.Errors = append(out.Errors, ValidationError{
			Field:   "phone",
			Message: "invalid phone format",
			Code:    "INVALID_PHONE",
		})
	}

	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	emailPattern := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailPattern.MatchString(email)
}

// ValidatePhone validates basic phone number format
func ValidatePhone(phone string) bool {
	phonePattern := regexp.MustCompile(`^\+?[\d\s\-\(\)]{7,}$`)
	return phonePattern.MatchString(phone)
}
