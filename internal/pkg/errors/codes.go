package errors

// Template error codes.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeDefaultTemplate = "DEFAULT_TEMPLATE"
	CodeTemplateInUse   = "TEMPLATE_IN_USE"
	CodeEntityTypeFixed = "ENTITY_TYPE_FIXED"
	CodeNoSections      = "NO_SECTIONS"
)

// Validation error codes.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidBody     = "INVALID_BODY"
	CodeUnknownEntity   = "UNKNOWN_ENTITY_TYPE"
	CodeUnknownRenderer = "UNKNOWN_RENDERER"
)

// System error codes.
const (
	CodeInternal = "INTERNAL"
)
