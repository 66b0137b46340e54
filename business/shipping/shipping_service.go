package shipping

import (
	"context"
	"errors"
	"fmt"

	"hungryHub/domain"
	"hungryHub/pkg/logger"
)

// ShippingRepository contract interface
type ShippingRepository interface {
	Create(ctx context.Context, detail *domain.ShippingDetail) error
	FindByID(ctx context.Context, id uint) (domain.ShippingDetail, error)
	FindByOrder(ctx context.Context, orderID uint) (domain.ShippingDetail, error)
	FindByShipperPaged(ctx context.Context, shipperID string, offset, limit int) ([]domain.ShippingDetail, int64, error)
	UpdateStatus(ctx context.Context, id uint, status domain.ShippingStatus) error
}

// OrderRepository is the slice of the order store this service needs.
type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Order, error)
}

// UserRepository is used to validate the shipper.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// allowedTransitions is the whole shipping state machine. DELIVERED,
// CANCELLED and RETURNED are terminal.
var allowedTransitions = map[domain.ShippingStatus][]domain.ShippingStatus{
	domain.ShippingPending:  {domain.ShippingShipping, domain.ShippingCancelled, domain.ShippingReturned},
	domain.ShippingShipping: {domain.ShippingDelivered, domain.ShippingCancelled, domain.ShippingReturned},
}

func canTransition(from, to domain.ShippingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type shippingService struct {
	shippingRepo ShippingRepository
	orderRepo    OrderRepository
	userRepo     UserRepository
}

func NewShippingService(shippingRepo ShippingRepository, orderRepo OrderRepository, userRepo UserRepository) *shippingService {
	return &shippingService{
		shippingRepo: shippingRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
	}
}

// Assign links a shipper to an order. An order can carry at most one
// shipping record, ever.
func (s *shippingService) Assign(ctx context.Context, orderID uint, shipperID string) (domain.ShippingDetail, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		logger.Error("Order not found for shipping", err)
		return domain.ShippingDetail{}, err
	}

	shipper, err := s.userRepo.FindByID(ctx, shipperID)
	if err != nil {
		logger.Error("Shipper not found", err)
		return domain.ShippingDetail{}, err
	}

	if existing, err := s.shippingRepo.FindByOrder(ctx, orderID); err == nil && existing.ID != 0 {
		logger.Error("Order already has a shipping record", "order_id", orderID)
		return domain.ShippingDetail{}, fmt.Errorf("shipping for order %d: %w", orderID, domain.ErrAlreadyExists)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.ShippingDetail{}, err
	}

	detail := domain.ShippingDetail{
		Status:    domain.ShippingPending,
		ShipperID: shipper.ID,
		OrderID:   order.ID,
	}

	if err := s.shippingRepo.Create(ctx, &detail); err != nil {
		logger.Error("Failed to create shipping detail", err)
		return domain.ShippingDetail{}, err
	}

	detail.Shipper = shipper
	detail.Order = order
	logger.Info("shipping assigned", "order_id", orderID, "shipper_id", shipperID)

	return detail, nil
}

// UpdateStatus applies one step of the state machine; anything outside
// the allowed edges fails without touching the record.
func (s *shippingService) UpdateStatus(ctx context.Context, id uint, next domain.ShippingStatus) (domain.ShippingDetail, error) {
	detail, err := s.shippingRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Shipping detail not found", err)
		return domain.ShippingDetail{}, err
	}

	if !canTransition(detail.Status, next) {
		logger.Error("Shipping transition not allowed", "from", string(detail.Status), "to", string(next))
		return domain.ShippingDetail{}, fmt.Errorf("shipping %d cannot go %s -> %s: %w",
			id, detail.Status, next, domain.ErrInvalidTransition)
	}

	if err := s.shippingRepo.UpdateStatus(ctx, id, next); err != nil {
		logger.Error("Failed to update shipping status", err)
		return domain.ShippingDetail{}, err
	}

	detail.Status = next
	return detail, nil
}

func (s *shippingService) FindByOrder(ctx context.Context, orderID uint) (domain.ShippingDetail, error) {
	return s.shippingRepo.FindByOrder(ctx, orderID)
}

func (s *shippingService) FindByShipper(ctx context.Context, shipperID string, req domain.PageRequest) (domain.Page, error) {
	req = req.Normalize()

	details, total, err := s.shippingRepo.FindByShipperPaged(ctx, shipperID, req.Offset(), req.PageSize)
	if err != nil {
		logger.Error("Failed to list shipping details", err)
		return domain.Page{}, err
	}

	return domain.NewPage(details, total, req), nil
}
