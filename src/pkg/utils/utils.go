package utils

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	httpError "ride-service/src/pkg/http-error"
)

// Result is the envelope every usecase method returns.
type Result struct {
	Data  interface{}
	Error interface{}
}

type successResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Response writes the standard {success, data} JSON envelope.
func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(successResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ResponseError maps usecase errors onto the {success:false, code, message} envelope.
func ResponseError(err interface{}, ctx *fiber.Ctx) error {
	if commonErr, ok := err.(*httpError.CommonError); ok {
		return ctx.Status(commonErr.Status).JSON(errorResponse{
			Success: false,
			Code:    commonErr.Code,
			Message: commonErr.Message,
			Detail:  commonErr.Detail,
		})
	}
	if plainErr, ok := err.(error); ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Message: plainErr.Error(),
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse{
		Success: false,
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "internal server error",
	})
}

// ConvertString renders any value as a string for log metadata.
func ConvertString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case error:
		return val.Error()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
