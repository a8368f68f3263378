package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrUnknownDriver = fmt.Errorf("unknown storage driver")

	// Record errors
	ErrValidation  = fmt.Errorf("validation failed")
	ErrNotFound    = fmt.Errorf("student not found")
	ErrPersistence = fmt.Errorf("persistence failed")
	ErrDuplicateID = fmt.Errorf("duplicate student id")

	// Destructive actions
	ErrConfirmationRequired = fmt.Errorf("confirmation required")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
