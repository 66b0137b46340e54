package shipping

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hungryHub/domain"
	psqlRepo "hungryHub/internal/repository/postgres"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Role{}, &domain.User{}, &domain.Order{}, &domain.ShippingDetail{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedShipper(t *testing.T, db *gorm.DB, id string) domain.User {
	role := domain.Role{Name: domain.RoleShipper}
	if err := db.Where(domain.Role{Name: role.Name}).FirstOrCreate(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	u := domain.User{
		ID:       id,
		Username: "shipper-" + id,
		Email:    id + "@example.com",
		Password: "hash",
		RoleID:   role.ID,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed shipper: %v", err)
	}
	return u
}

func seedOrder(t *testing.T, db *gorm.DB, userID string) domain.Order {
	o := domain.Order{RestaurantID: 1, UserID: userID, Total: 42, Status: domain.OrderPlaced}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func newService(db *gorm.DB) *shippingService {
	return NewShippingService(
		psqlRepo.NewShippingRepository(db),
		psqlRepo.NewOrderRepository(db),
		psqlRepo.NewUserRepository(db),
	)
}

func TestAssignCreatesPendingRecord(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db)
	ctx := context.Background()

	shipper := seedShipper(t, db, "shipper000000000000000000001")
	order := seedOrder(t, db, shipper.ID)

	detail, err := svc.Assign(ctx, order.ID, shipper.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if detail.Status != domain.ShippingPending {
		t.Fatalf("expected PENDING, got %s", detail.Status)
	}
	if detail.OrderID != order.ID || detail.ShipperID != shipper.ID {
		t.Fatalf("record links wrong order/shipper: %+v", detail)
	}
}

func TestAssignRejectsSecondRecordForOrder(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db)
	ctx := context.Background()

	shipper := seedShipper(t, db, "shipper000000000000000000002")
	other := seedShipper(t, db, "shipper000000000000000000003")
	order := seedOrder(t, db, shipper.ID)

	if _, err := svc.Assign(ctx, order.ID, shipper.ID); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	_, err := svc.Assign(ctx, order.ID, other.ID)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	var count int64
	if err := db.Model(&domain.ShippingDetail{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record for order, got %d", count)
	}
}

func TestAssignUnknownOrderFails(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db)
	ctx := context.Background()

	shipper := seedShipper(t, db, "shipper000000000000000000004")

	_, err := svc.Assign(ctx, 999, shipper.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db)
	ctx := context.Background()

	shipper := seedShipper(t, db, "shipper000000000000000000005")
	order := seedOrder(t, db, shipper.ID)

	detail, err := svc.Assign(ctx, order.ID, shipper.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	detail, err = svc.UpdateStatus(ctx, detail.ID, domain.ShippingShipping)
	if err != nil {
		t.Fatalf("PENDING -> SHIPPING: %v", err)
	}
	if detail.Status != domain.ShippingShipping {
		t.Fatalf("expected SHIPPING, got %s", detail.Status)
	}

	detail, err = svc.UpdateStatus(ctx, detail.ID, domain.ShippingDelivered)
	if err != nil {
		t.Fatalf("SHIPPING -> DELIVERED: %v", err)
	}
	if detail.Status != domain.ShippingDelivered {
		t.Fatalf("expected DELIVERED, got %s", detail.Status)
	}
}

func TestUpdateStatusRejectsSkippedStep(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db)
	ctx := context.Background()

	shipper := seedShipper(t, db, "shipper000000000000000000006")
	order := seedOrder(t, db, shipper.ID)

	detail, err := svc.Assign(ctx, order.ID, shipper.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	// PENDING cannot jump straight to DELIVERED
	_, err = svc.UpdateStatus(ctx, detail.ID, domain.ShippingDelivered)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	stored, err := svc.FindByOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("find by order: %v", err)
	}
	if stored.Status != domain.ShippingPending {
		t.Fatalf("failed transition must not mutate, got %s", stored.Status)
	}
}

func TestTerminalStatesAreFrozen(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db)
	ctx := context.Background()

	shipper := seedShipper(t, db, "shipper000000000000000000007")

	terminals := []domain.ShippingStatus{domain.ShippingDelivered, domain.ShippingCancelled, domain.ShippingReturned}
	for _, terminal := range terminals {
		order := seedOrder(t, db, shipper.ID)
		detail := domain.ShippingDetail{Status: terminal, ShipperID: shipper.ID, OrderID: order.ID}
		if err := db.Create(&detail).Error; err != nil {
			t.Fatalf("seed %s record: %v", terminal, err)
		}

		for _, next := range []domain.ShippingStatus{domain.ShippingPending, domain.ShippingShipping, domain.ShippingDelivered, domain.ShippingCancelled, domain.ShippingReturned} {
			if _, err := svc.UpdateStatus(ctx, detail.ID, next); !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %v", terminal, next, err)
			}
		}
	}
}

func TestFindByShipperPaginates(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db)
	ctx := context.Background()

	shipper := seedShipper(t, db, "shipper000000000000000000008")
	for i := 0; i < 5; i++ {
		order := seedOrder(t, db, shipper.ID)
		detail := domain.ShippingDetail{Status: domain.ShippingPending, ShipperID: shipper.ID, OrderID: order.ID}
		if err := db.Create(&detail).Error; err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	page, err := svc.FindByShipper(ctx, shipper.ID, domain.PageRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("find by shipper: %v", err)
	}
	if page.TotalItems != 5 {
		t.Fatalf("expected 5 total, got %d", page.TotalItems)
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page.TotalPages)
	}
	items, ok := page.Items.([]domain.ShippingDetail)
	if !ok {
		t.Fatalf("unexpected items type %T", page.Items)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items on first page, got %d", len(items))
	}

	// beyond the last page the envelope still reports the real totals
	page, err = svc.FindByShipper(ctx, shipper.ID, domain.PageRequest{Page: 9, PageSize: 2})
	if err != nil {
		t.Fatalf("find by shipper beyond range: %v", err)
	}
	items = page.Items.([]domain.ShippingDetail)
	if len(items) != 0 {
		t.Fatalf("expected empty page, got %d items", len(items))
	}
	if page.TotalItems != 5 || page.TotalPages != 3 {
		t.Fatalf("expected totals preserved, got %+v", page)
	}
}
