package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrValidation      = errors.New("validation failed")
)
