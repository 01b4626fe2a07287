package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  *struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error,omitempty"`
}

func success(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Status: "ok", Data: data})
}

func fail(c echo.Context, status int, message string, fields map[string]string) error {
	resp := envelope{Status: "error"}
	resp.Error = &struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	}{Message: message, Fields: fields}
	return c.JSON(status, resp)
}

func failValidation(c echo.Context, fields map[string]string) error {
	return fail(c, http.StatusBadRequest, "Validation failed", fields)
}

func failNotFound(c echo.Context, message string) error {
	return fail(c, http.StatusNotFound, message, nil)
}

func internalError(c echo.Context, message string) error {
	return fail(c, http.StatusInternalServerError, message, nil)
}
