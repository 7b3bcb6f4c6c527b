package validators

import (
	"fmt"

	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
)

func Required(value, field string) error {
	if value == "" {
		return httperr.ErrValidation(fmt.Sprintf("%s is required", field))
	}
	return nil
}

func Email(value string) error {
	if !IsEmailValid(value) {
		return httperr.ErrValidation("Invalid email")
	}
	return nil
}

func MinLength(value string, min int, field string) error {
	if len([]rune(value)) < min {
		return httperr.ErrValidation(fmt.Sprintf("%s must be at least %d characters", field, min))
	}
	return nil
}

func MaxLength(value string, max int, field string) error {
	if len([]rune(value)) > max {
		return httperr.ErrValidation(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}
