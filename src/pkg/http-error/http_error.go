package httperror

import "github.com/gofiber/fiber/v2"

// CommonError carries the HTTP status, a stable machine-readable code and a
// human-readable message back to the delivery layer.
type CommonError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	// Detail holds upstream diagnostics; only rendered when app.debug is on.
	Detail string `json:"detail,omitempty"`
}

func (e *CommonError) Error() string {
	return e.Message
}

func NewBadRequest() *CommonError {
	return &CommonError{Status: fiber.StatusBadRequest, Code: "BAD_REQUEST", Message: "bad request"}
}

func NewUnauthorized() *CommonError {
	return &CommonError{Status: fiber.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "unauthorized"}
}

func NewForbidden() *CommonError {
	return &CommonError{Status: fiber.StatusForbidden, Code: "FORBIDDEN", Message: "forbidden"}
}

func NewNotFound() *CommonError {
	return &CommonError{Status: fiber.StatusNotFound, Code: "NOT_FOUND", Message: "not found"}
}

func NewConflict() *CommonError {
	return &CommonError{Status: fiber.StatusConflict, Code: "CONFLICT", Message: "conflict"}
}

func NewUnprocessableEntity() *CommonError {
	return &CommonError{Status: fiber.StatusUnprocessableEntity, Code: "UNPROCESSABLE_ENTITY", Message: "unprocessable entity"}
}

func NewServiceUnavailable() *CommonError {
	return &CommonError{Status: fiber.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE", Message: "service unavailable"}
}

func NewInternalServerError() *CommonError {
	return &CommonError{Status: fiber.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: "internal server error"}
}

// WithCode overrides the machine-readable code, keeping the status.
func (e *CommonError) WithCode(code string) *CommonError {
	e.Code = code
	return e
}
