package shared

import (
	"errors"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var JSONAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

var (
	successResponse       = mustMarshal(Response{Code: fiber.StatusOK, Message: "Success"})
	createdResponse       = mustMarshal(Response{Code: fiber.StatusCreated, Message: "Created"})
	notFoundResponse      = mustMarshal(Response{Code: fiber.StatusNotFound, Message: "Not Found"})
	unauthorizedResponse  = mustMarshal(Response{Code: fiber.StatusUnauthorized, Message: "Unauthorized"})
	internalErrorResponse = mustMarshal(Response{Code: fiber.StatusInternalServerError, Message: "Internal Server Error"})
)

func mustMarshal(v interface{}) []byte {
	b, _ := JSONAPI.Marshal(v)
	return b
}

func ResponseJSON(c *fiber.Ctx, httpCode int, message string, data interface{}) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)

	if data == nil {
		switch {
		case httpCode == fiber.StatusOK && message == "Success":
			return c.Status(httpCode).Send(successResponse)
		case httpCode == fiber.StatusCreated && message == "Created":
			return c.Status(httpCode).Send(createdResponse)
		case httpCode == fiber.StatusNotFound && message == "Not Found":
			return c.Status(httpCode).Send(notFoundResponse)
		case httpCode == fiber.StatusUnauthorized && message == "Unauthorized":
			return c.Status(httpCode).Send(unauthorizedResponse)
		case httpCode == fiber.StatusInternalServerError && message == "Internal Server Error":
			return c.Status(httpCode).Send(internalErrorResponse)
		}
	}

	body, err := JSONAPI.Marshal(Response{
		Code:    httpCode,
		Message: message,
		Data:    data,
	})
	if err != nil {
		return err
	}
	return c.Status(httpCode).Send(body)
}

func ResponseOK(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, fiber.StatusOK, "Success", data)
}

func ResponseCreated(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, fiber.StatusCreated, "Created", data)
}

func ResponseNotFound(c *fiber.Ctx) error {
	return ResponseJSON(c, fiber.StatusNotFound, "Not Found", nil)
}

func ResponseInternalError(c *fiber.Ctx) error {
	return ResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", nil)
}

// HandleError renders err as an envelope. AppErrors keep their status, message and data.
func HandleError(c *fiber.Ctx, err error) error {
	if appErr, ok := GetAppError(err); ok {
		return ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return ResponseInternalError(c)
}
