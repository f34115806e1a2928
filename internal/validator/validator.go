package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campustrack/academic-record-service/internal/models"
)

// Validator wraps go-playground validation together with the academic business
// rules (mark ranges, status values, class sections, roles).
type Validator struct {
	validate *validator.Validate
}

// FieldError describes a single failed field validation.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	if len(fe) == 1 {
		return fmt.Sprintf("validation failed: %s %s", fe[0].Field, fe[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(fe))
}

func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerBusinessRules()
	return v
}

// Struct validates s and returns nil or a FieldErrors error.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors FieldErrors
	for _, fe := range err.(validator.ValidationErrors) {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return fieldErrors
}

func (v *Validator) registerBusinessRules() {
	// IA scores are out of 50
	v.validate.RegisterValidation("ia_score", func(fl validator.FieldLevel) bool {
		score := fl.Field().Float()
		return score >= 0 && score <= 50
	})

	// Attendance status accepts "present"/"absent" in any casing
	v.validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).IsValid()
	})

	// Class sections are A or B
	v.validate.RegisterValidation("class_section", func(fl validator.FieldLevel) bool {
		section := models.ClassSection(fl.Field().String())
		return section == models.ClassA || section == models.ClassB
	})

	// Known user roles
	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch models.UserRole(fl.Field().String()) {
		case models.RoleStudent, models.RoleFaculty, models.RoleHOD:
			return true
		}
		return false
	})
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "ia_score":
		return "must be between 0 and 50"
	case "attendance_status":
		return "must be 'present' or 'absent'"
	case "class_section":
		return "must be 'A' or 'B'"
	case "user_role":
		return "must be 'student', 'faculty' or 'hod'"
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}
