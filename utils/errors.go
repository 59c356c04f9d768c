package utils

import (
	"github.com/pkg/errors"
)

// NewConfigValidationError returns an error specifying that there is an issue with the config
// at the given path.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

// NewConfigValidationFieldRequiredError is used when a config field is missing or zero.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return NewConfigValidationError(path, errors.Errorf("%q is required", field))
}

// NewConfigValidationFieldRangeError is used when a numeric config field falls outside [low, high].
func NewConfigValidationFieldRangeError(path, field string, value, low, high int) error {
	return NewConfigValidationError(path, errors.Errorf("%q must be between %d and %d, got %d", field, low, high, value))
}
