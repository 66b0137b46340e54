package restaurant

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	"hungryHub/domain"
	psqlRepo "hungryHub/internal/repository/postgres"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeUploader struct {
	uploads []string
	deleted []string
	fail    bool
}

func (f *fakeUploader) Upload(file *multipart.FileHeader, folder string) (string, error) {
	if f.fail {
		return "", errors.New("storage unavailable")
	}
	url := "https://files.example.com/" + folder + "/" + file.Filename
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeUploader) Delete(url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeGeocoder struct {
	coords *domain.Coordinates
	fail   bool
	calls  int
}

func (f *fakeGeocoder) Geocode(street, ward, district, city string) (*domain.Coordinates, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("geocoding service down")
	}
	return f.coords, nil
}

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(&domain.Role{}, &domain.User{}, &domain.Address{}, &domain.Restaurant{}, &domain.Food{}, &domain.Order{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedOwner(t *testing.T, db *gorm.DB, id string) domain.User {
	role := domain.Role{Name: domain.RoleOwner}
	if err := db.Where(domain.Role{Name: role.Name}).FirstOrCreate(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	u := domain.User{
		ID:       id,
		Username: "owner-" + id,
		Email:    id + "@example.com",
		Password: "hash",
		RoleID:   role.ID,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	return u
}

func newService(db *gorm.DB, uploader Uploader, geocoder Geocoder) *restaurantService {
	return NewRestaurantService(
		psqlRepo.NewRestaurantRepository(db),
		psqlRepo.NewAddressRepository(db),
		psqlRepo.NewUserRepository(db),
		psqlRepo.NewOrderRepository(db),
		uploader,
		geocoder,
	)
}

func TestRequestCreatesPendingRestaurant(t *testing.T) {
	db := setupTestDB(t, t.Name())
	geo := &fakeGeocoder{coords: &domain.Coordinates{Latitude: 10.77, Longitude: 106.69}}
	svc := newService(db, &fakeUploader{}, geo)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner00000000000000000000001")

	created, err := svc.Request(ctx, RestaurantInput{
		Name:    "Pho Corner",
		OwnerID: owner.ID,
		Street:  "12 Nguyen Hue",
		City:    "Ho Chi Minh City",
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if created.Status != domain.RestaurantPending {
		t.Fatalf("expected PENDING, got %s", created.Status)
	}
	if created.Address.Latitude == nil || *created.Address.Latitude != 10.77 {
		t.Fatalf("expected geocoded latitude, got %+v", created.Address.Latitude)
	}
}

func TestRequestUnknownOwnerFails(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeUploader{}, &fakeGeocoder{})
	ctx := context.Background()

	_, err := svc.Request(ctx, RestaurantInput{Name: "Nowhere", OwnerID: "missing0000000000000000000000"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGeocodingFailureStillPersists(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeUploader{}, &fakeGeocoder{fail: true})
	ctx := context.Background()

	owner := seedOwner(t, db, "owner00000000000000000000002")

	created, err := svc.Request(ctx, RestaurantInput{
		Name:    "Banh Mi 37",
		OwnerID: owner.ID,
		Street:  "37 Ly Tu Trong",
		City:    "Ho Chi Minh City",
	})
	if err != nil {
		t.Fatalf("geocoding failure must not abort creation: %v", err)
	}

	var stored domain.Address
	if err := db.First(&stored, created.AddressID).Error; err != nil {
		t.Fatalf("load address: %v", err)
	}
	if stored.Latitude != nil || stored.Longitude != nil {
		t.Fatalf("expected nil coordinates, got %+v %+v", stored.Latitude, stored.Longitude)
	}
	if stored.Street != "37 Ly Tu Trong" {
		t.Fatalf("address fields must persist, got %q", stored.Street)
	}
}

func TestCallerCoordinatesSkipGeocoding(t *testing.T) {
	db := setupTestDB(t, t.Name())
	geo := &fakeGeocoder{coords: &domain.Coordinates{Latitude: 1, Longitude: 2}}
	svc := newService(db, &fakeUploader{}, geo)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner00000000000000000000003")

	lat, lng := 21.02, 105.85
	created, err := svc.Request(ctx, RestaurantInput{
		Name:      "Hanoi Kitchen",
		OwnerID:   owner.ID,
		City:      "Hanoi",
		Latitude:  &lat,
		Longitude: &lng,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if geo.calls != 0 {
		t.Fatalf("geocoder must not be called when coordinates are supplied")
	}
	if *created.Address.Latitude != 21.02 || *created.Address.Longitude != 105.85 {
		t.Fatalf("expected caller coordinates, got %+v", created.Address)
	}
}

func TestUploadFailureAbortsCreation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeUploader{fail: true}, &fakeGeocoder{fail: true})
	ctx := context.Background()

	owner := seedOwner(t, db, "owner00000000000000000000004")

	_, err := svc.RequestWithFiles(ctx, RestaurantInput{
		Name:    "Broken Uploads",
		OwnerID: owner.ID,
		City:    "Da Nang",
	}, RestaurantFiles{
		Avatar: &multipart.FileHeader{Filename: "avatar.png"},
	})
	if err == nil {
		t.Fatalf("expected upload error")
	}

	var count int64
	if err := db.Model(&domain.Restaurant{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("no restaurant must be persisted after upload failure, got %d", count)
	}
}

func TestRequestWithFilesGoesLive(t *testing.T) {
	db := setupTestDB(t, t.Name())
	uploader := &fakeUploader{}
	svc := newService(db, uploader, &fakeGeocoder{fail: true})
	ctx := context.Background()

	owner := seedOwner(t, db, "owner00000000000000000000005")

	created, err := svc.RequestWithFiles(ctx, RestaurantInput{
		Name:    "Bun Cha House",
		OwnerID: owner.ID,
		City:    "Hanoi",
	}, RestaurantFiles{
		Avatar:      &multipart.FileHeader{Filename: "avatar.png"},
		Certificate: &multipart.FileHeader{Filename: "certificate.pdf"},
	})
	if err != nil {
		t.Fatalf("request with files: %v", err)
	}
	if created.Status != domain.RestaurantApproved {
		t.Fatalf("expected APPROVED, got %s", created.Status)
	}
	if created.AvatarURL == "" || created.CertificateURL == "" {
		t.Fatalf("expected file urls, got %+v", created)
	}
	if len(uploader.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(uploader.uploads))
	}
}

func TestApproveOnlyPending(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeUploader{}, &fakeGeocoder{fail: true})
	ctx := context.Background()

	owner := seedOwner(t, db, "owner00000000000000000000006")

	created, err := svc.Request(ctx, RestaurantInput{Name: "Com Tam 68", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	approved, err := svc.Approve(ctx, created.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.RestaurantApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}

	// a second review of any kind must fail and leave the record alone
	if _, err := svc.Approve(ctx, created.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on re-approve, got %v", err)
	}
	if _, err := svc.Reject(ctx, created.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on reject after approve, got %v", err)
	}

	stored, err := svc.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Status != domain.RestaurantApproved {
		t.Fatalf("failed review must not mutate, got %s", stored.Status)
	}
}

func TestRejectOnlyPending(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeUploader{}, &fakeGeocoder{fail: true})
	ctx := context.Background()

	owner := seedOwner(t, db, "owner00000000000000000000007")

	created, err := svc.Request(ctx, RestaurantInput{Name: "Rejected Place", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	rejected, err := svc.Reject(ctx, created.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != domain.RestaurantRejected {
		t.Fatalf("expected REJECTED, got %s", rejected.Status)
	}

	if _, err := svc.Approve(ctx, created.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on approve after reject, got %v", err)
	}
}

func TestDeleteRequestOnlyPending(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeUploader{}, &fakeGeocoder{fail: true})
	ctx := context.Background()

	owner := seedOwner(t, db, "owner00000000000000000000008")

	pending, err := svc.Request(ctx, RestaurantInput{Name: "Withdrawn", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := svc.DeleteRequest(ctx, pending.ID); err != nil {
		t.Fatalf("delete pending request: %v", err)
	}
	if _, err := svc.FindByID(ctx, pending.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after deletion, got %v", err)
	}

	live, err := svc.Create(ctx, RestaurantInput{Name: "Live Place", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteRequest(ctx, live.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition deleting a reviewed restaurant, got %v", err)
	}
}

func TestListApprovedPaginates(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeUploader{}, &fakeGeocoder{fail: true})
	ctx := context.Background()

	owner := seedOwner(t, db, "owner00000000000000000000009")

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, RestaurantInput{Name: fmt.Sprintf("Live %d", i), OwnerID: owner.ID}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.Request(ctx, RestaurantInput{Name: "Still Pending", OwnerID: owner.ID}); err != nil {
		t.Fatalf("request: %v", err)
	}

	page, err := svc.FindAllApproved(ctx, domain.PageRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if page.TotalItems != 3 {
		t.Fatalf("expected 3 approved, got %d", page.TotalItems)
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", page.TotalPages)
	}

	requests, err := svc.Requests(ctx, domain.PageRequest{})
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	if requests.TotalItems != 1 {
		t.Fatalf("expected 1 pending request, got %d", requests.TotalItems)
	}
}

func TestOwnerAggregates(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeUploader{}, &fakeGeocoder{fail: true})
	ctx := context.Background()

	owner := seedOwner(t, db, "owner0000000000000000000000a")

	created, err := svc.Create(ctx, RestaurantInput{Name: "Busy Kitchen", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	orders := []domain.Order{
		{RestaurantID: created.ID, UserID: owner.ID, Total: 100, Status: domain.OrderCompleted},
		{RestaurantID: created.ID, UserID: owner.ID, Total: 50, Status: domain.OrderCompleted},
		{RestaurantID: created.ID, UserID: owner.ID, Total: 999, Status: domain.OrderCancelled},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}

	count, err := svc.OrderCountByOwner(ctx, owner.ID, nil)
	if err != nil {
		t.Fatalf("order count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 orders, got %d", count)
	}

	revenue, err := svc.RevenueByOwner(ctx, owner.ID, nil)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if revenue != 150 {
		t.Fatalf("only completed orders count toward revenue, got %v", revenue)
	}
}
