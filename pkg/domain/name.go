package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxNameLength is the longest account or category name accepted, in characters.
const MaxNameLength = 50

var validate = validator.New()

// ValidateName checks that an account or category name is non-blank and at
// most MaxNameLength characters long.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if err := validate.Var(name, fmt.Sprintf("max=%d", MaxNameLength)); err != nil {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidName, MaxNameLength)
	}
	return nil
}
