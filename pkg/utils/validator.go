package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// zipPattern accepts 5-digit ZIP codes with an optional +4 extension.
var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// CustomValidator wraps go-playground/validator with the extra rules the
// label forms need.
type CustomValidator struct {
	validate *validator.Validate
}

var (
	validatorOnce     sync.Once
	validatorInstance *CustomValidator
)

// GetValidator returns the shared validator instance.
func GetValidator() *CustomValidator {
	validatorOnce.Do(func() {
		v := validator.New()
		// Registration only fails for an empty tag name.
		_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
			return zipPattern.MatchString(fl.Field().String())
		})
		validatorInstance = &CustomValidator{validate: v}
	})
	return validatorInstance
}

// Validate runs struct validation and flattens the failures into a single
// message with one entry per offending field.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}

	messages := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		messages = append(messages, fieldMessage(fe))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

// fieldMessage maps a validation failure to a user-facing message.
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len", "uppercase", "alpha":
		if strings.Contains(field, "State") {
			return fmt.Sprintf("%s must be a 2-letter US state code (e.g., CA, NY)", field)
		}
		return fmt.Sprintf("%s is invalid", field)
	case "zipcode":
		return fmt.Sprintf("%s must be in format 12345 or 12345-6789", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
