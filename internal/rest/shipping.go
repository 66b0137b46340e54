package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"hungryHub/domain"
	"hungryHub/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ShippingHandler struct {
		shippingService ShippingService
		validate        *validator.Validate
		timeout         time.Duration
	}

	ShippingService interface {
		Assign(ctx context.Context, orderID uint, shipperID string) (domain.ShippingDetail, error)
		UpdateStatus(ctx context.Context, id uint, next domain.ShippingStatus) (domain.ShippingDetail, error)
		FindByOrder(ctx context.Context, orderID uint) (domain.ShippingDetail, error)
		FindByShipper(ctx context.Context, shipperID string, req domain.PageRequest) (domain.Page, error)
	}

	AssignShippingInput struct {
		OrderID   uint   `json:"order_id" validate:"required"`
		ShipperID string `json:"shipper_id" validate:"required"`
	}

	UpdateShippingStatusInput struct {
		Status string `json:"status" validate:"required,oneof=PENDING SHIPPING DELIVERED CANCELLED RETURNED"`
	}
)

func NewShippingHandler(shippingService ShippingService) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
		validate:        validator.New(),
		timeout:         10 * time.Second,
	}
}

func (h *ShippingHandler) AssignShipping(c echo.Context) error {
	var req AssignShippingInput

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate shipping assignment", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	detail, err := h.shippingService.Assign(ctx, req.OrderID, req.ShipperID)
	if err != nil {
		logger.Error("Failed to assign shipping", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(detail))
}

func (h *ShippingHandler) UpdateShippingStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid shipping ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid shipping ID"})
	}

	var req UpdateShippingStatusInput
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate shipping status", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	detail, err := h.shippingService.UpdateStatus(ctx, uint(id), domain.ShippingStatus(req.Status))
	if err != nil {
		logger.Error("Failed to update shipping status", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(detail))
}

func (h *ShippingHandler) GetShippingByOrder(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	if err != nil {
		logger.Error("Invalid order ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	detail, err := h.shippingService.FindByOrder(ctx, uint(orderID))
	if err != nil {
		logger.Error("Failed to get shipping by order", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(detail))
}

// MyShippings lists the caller's own deliveries.
func (h *ShippingHandler) MyShippings(c echo.Context) error {
	shipperID, ok := c.Get("user_id").(string)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.shippingService.FindByShipper(ctx, shipperID, pageRequest(c))
	if err != nil {
		logger.Error("Failed to list shippings", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, page)
}
