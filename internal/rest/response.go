package rest

import (
	"errors"
	"net/http"
	"strconv"

	"hungryHub/domain"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// statusFor maps domain error kinds onto HTTP statuses. Anything the
// services did not classify is treated as a bad request.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func pageRequest(c echo.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	return domain.PageRequest{Page: page, PageSize: pageSize}.Normalize()
}
