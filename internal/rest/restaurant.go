package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"hungryHub/business/restaurant"
	"hungryHub/domain"
	"hungryHub/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RestaurantHandler struct {
		restaurantService RestaurantService
		validate          *validator.Validate
		timeout           time.Duration
	}

	RestaurantService interface {
		Request(ctx context.Context, in restaurant.RestaurantInput) (domain.Restaurant, error)
		Create(ctx context.Context, in restaurant.RestaurantInput) (domain.Restaurant, error)
		RequestWithFiles(ctx context.Context, in restaurant.RestaurantInput, files restaurant.RestaurantFiles) (domain.Restaurant, error)
		UpdateWithFiles(ctx context.Context, id uint, upd restaurant.RestaurantUpdate, files restaurant.RestaurantFiles) (domain.Restaurant, error)
		Approve(ctx context.Context, id uint) (domain.Restaurant, error)
		Reject(ctx context.Context, id uint) (domain.Restaurant, error)
		DeleteRequest(ctx context.Context, id uint) error
		FindByID(ctx context.Context, id uint) (domain.Restaurant, error)
		FindAll(ctx context.Context, req domain.PageRequest) (domain.Page, error)
		FindAllApproved(ctx context.Context, req domain.PageRequest) (domain.Page, error)
		Requests(ctx context.Context, req domain.PageRequest) (domain.Page, error)
		Preview(ctx context.Context, req domain.PageRequest) (domain.Page, error)
		OrderCountByOwner(ctx context.Context, ownerID string, month *string) (int64, error)
		RevenueByOwner(ctx context.Context, ownerID string, month *string) (float64, error)
	}

	RestaurantRequestInput struct {
		Name        string `json:"name" form:"name" validate:"required"`
		Description string `json:"description" form:"description"`
		OpenTime    string `json:"open_time" form:"open_time"`
		CloseTime   string `json:"close_time" form:"close_time"`
		OwnerID     string `json:"owner_id" form:"owner_id" validate:"required"`
		Street      string `json:"street" form:"street"`
		Ward        string `json:"ward" form:"ward"`
		District    string `json:"district" form:"district"`
		City        string `json:"city" form:"city"`
	}

	RestaurantUpdateInput struct {
		Name        string `json:"name" form:"name"`
		Description string `json:"description" form:"description"`
		OpenTime    string `json:"open_time" form:"open_time"`
		CloseTime   string `json:"close_time" form:"close_time"`
		OwnerID     string `json:"owner_id" form:"owner_id"`
		Street      string `json:"street" form:"street"`
		Ward        string `json:"ward" form:"ward"`
		District    string `json:"district" form:"district"`
		City        string `json:"city" form:"city"`
	}
)

func NewRestaurantHandler(restaurantService RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
		validate:          validator.New(),
		timeout:           10 * time.Second,
	}
}

func (h *RestaurantHandler) toInput(c echo.Context, req RestaurantRequestInput) restaurant.RestaurantInput {
	in := restaurant.RestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		OpenTime:    req.OpenTime,
		CloseTime:   req.CloseTime,
		OwnerID:     req.OwnerID,
		Street:      req.Street,
		Ward:        req.Ward,
		District:    req.District,
		City:        req.City,
	}

	// optional caller-supplied coordinates
	if lat, err := strconv.ParseFloat(c.FormValue("latitude"), 64); err == nil {
		if lng, err := strconv.ParseFloat(c.FormValue("longitude"), 64); err == nil {
			in.Latitude = &lat
			in.Longitude = &lng
		}
	}

	return in
}

func formFiles(c echo.Context) restaurant.RestaurantFiles {
	files := restaurant.RestaurantFiles{}
	if f, err := c.FormFile("avatar"); err == nil {
		files.Avatar = f
	}
	if f, err := c.FormFile("background"); err == nil {
		files.Background = f
	}
	if f, err := c.FormFile("certificate"); err == nil {
		files.Certificate = f
	}
	return files
}

func (h *RestaurantHandler) RequestRestaurant(c echo.Context) error {
	var req RestaurantRequestInput

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate restaurant request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.restaurantService.Request(ctx, h.toInput(c, req))
	if err != nil {
		logger.Error("Failed to request restaurant", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *RestaurantHandler) CreateRestaurant(c echo.Context) error {
	var req RestaurantRequestInput

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate restaurant create", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.restaurantService.Create(ctx, h.toInput(c, req))
	if err != nil {
		logger.Error("Failed to create restaurant", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

// RequestRestaurantWithFiles takes a multipart form carrying the restaurant
// fields plus optional avatar/background/certificate attachments.
func (h *RestaurantHandler) RequestRestaurantWithFiles(c echo.Context) error {
	var req RestaurantRequestInput

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate restaurant request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.restaurantService.RequestWithFiles(ctx, h.toInput(c, req), formFiles(c))
	if err != nil {
		logger.Error("Failed to request restaurant with files", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *RestaurantHandler) UpdateRestaurant(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid restaurant ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid restaurant ID"})
	}

	var req RestaurantUpdateInput
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.restaurantService.UpdateWithFiles(ctx, uint(id), restaurant.RestaurantUpdate{
		Name:        req.Name,
		Description: req.Description,
		OpenTime:    req.OpenTime,
		CloseTime:   req.CloseTime,
		OwnerID:     req.OwnerID,
		Street:      req.Street,
		Ward:        req.Ward,
		District:    req.District,
		City:        req.City,
	}, formFiles(c))
	if err != nil {
		logger.Error("Failed to update restaurant", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *RestaurantHandler) ApproveRestaurant(c echo.Context) error {
	return h.review(c, h.restaurantService.Approve)
}

func (h *RestaurantHandler) RejectRestaurant(c echo.Context) error {
	return h.review(c, h.restaurantService.Reject)
}

func (h *RestaurantHandler) review(c echo.Context, fn func(context.Context, uint) (domain.Restaurant, error)) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid restaurant ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid restaurant ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reviewed, err := fn(ctx, uint(id))
	if err != nil {
		logger.Error("Failed to review restaurant", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(reviewed))
}

func (h *RestaurantHandler) DeleteRestaurantRequest(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid restaurant ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid restaurant ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.restaurantService.DeleteRequest(ctx, uint(id)); err != nil {
		logger.Error("Failed to delete restaurant request", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Restaurant request deleted successfully"))
}

func (h *RestaurantHandler) GetRestaurantByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid restaurant ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid restaurant ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	found, err := h.restaurantService.FindByID(ctx, uint(id))
	if err != nil {
		logger.Error("Failed to get restaurant by id", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

func (h *RestaurantHandler) ListRestaurants(c echo.Context) error {
	return h.listWith(c, h.restaurantService.FindAll)
}

func (h *RestaurantHandler) ListApprovedRestaurants(c echo.Context) error {
	return h.listWith(c, h.restaurantService.FindAllApproved)
}

func (h *RestaurantHandler) ListRestaurantRequests(c echo.Context) error {
	return h.listWith(c, h.restaurantService.Requests)
}

func (h *RestaurantHandler) GetPreview(c echo.Context) error {
	return h.listWith(c, h.restaurantService.Preview)
}

func (h *RestaurantHandler) listWith(c echo.Context, fn func(context.Context, domain.PageRequest) (domain.Page, error)) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := fn(ctx, pageRequest(c))
	if err != nil {
		logger.Error("Failed to list restaurants", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, page)
}

// OwnerStats serves the owner dashboard: order count and revenue of the
// caller's restaurant, optionally scoped to ?month=2006-01.
func (h *RestaurantHandler) OwnerStats(c echo.Context) error {
	ownerID, ok := c.Get("user_id").(string)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var month *string
	if m := c.QueryParam("month"); m != "" {
		month = &m
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	count, err := h.restaurantService.OrderCountByOwner(ctx, ownerID, month)
	if err != nil {
		logger.Error("Failed to count orders by owner", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	revenue, err := h.restaurantService.RevenueByOwner(ctx, ownerID, month)
	if err != nil {
		logger.Error("Failed to sum revenue by owner", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"order_count": count,
		"revenue":     revenue,
	}))
}
