package restaurant

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"hungryHub/domain"
	"hungryHub/pkg/logger"
)

// RestaurantRepository contract interface
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *domain.Restaurant) error
	FindByID(ctx context.Context, id uint) (domain.Restaurant, error)
	FindByOwner(ctx context.Context, ownerID string) (domain.Restaurant, error)
	FindPaged(ctx context.Context, status *domain.RestaurantStatus, offset, limit int) ([]domain.Restaurant, int64, error)
	Update(ctx context.Context, restaurant *domain.Restaurant) error
	UpdateStatus(ctx context.Context, id uint, expected, next domain.RestaurantStatus) error
	Delete(ctx context.Context, id uint) error
}

// AddressRepository contract interface
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	FindByID(ctx context.Context, id uint) (domain.Address, error)
	Update(ctx context.Context, address *domain.Address) error
}

// UserRepository is the slice of the user store this service needs.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// OrderRepository backs the owner-scoped aggregates.
type OrderRepository interface {
	CountByRestaurant(ctx context.Context, restaurantID uint, month *string) (int64, error)
	RevenueByRestaurant(ctx context.Context, restaurantID uint, month *string) (float64, error)
}

// Uploader is the object-storage collaborator.
type Uploader interface {
	Upload(file *multipart.FileHeader, folder string) (string, error)
	Delete(url string) error
}

// Geocoder resolves an address tuple to coordinates; its failures are
// always non-fatal for the enclosing operation.
type Geocoder interface {
	Geocode(street, ward, district, city string) (*domain.Coordinates, error)
}

type restaurantService struct {
	restaurantRepo RestaurantRepository
	addressRepo    AddressRepository
	userRepo       UserRepository
	orderRepo      OrderRepository
	uploader       Uploader
	geocoder       Geocoder
}

func NewRestaurantService(
	restaurantRepo RestaurantRepository,
	addressRepo AddressRepository,
	userRepo UserRepository,
	orderRepo OrderRepository,
	uploader Uploader,
	geocoder Geocoder,
) *restaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		addressRepo:    addressRepo,
		userRepo:       userRepo,
		orderRepo:      orderRepo,
		uploader:       uploader,
		geocoder:       geocoder,
	}
}

type RestaurantInput struct {
	Name        string
	Description string
	OpenTime    string
	CloseTime   string
	OwnerID     string

	Street   string
	Ward     string
	District string
	City     string
	// caller-supplied coordinates win over geocoding
	Latitude  *float64
	Longitude *float64
}

// RestaurantFiles carries the optional attachments of a creation or update.
type RestaurantFiles struct {
	Avatar      *multipart.FileHeader
	Background  *multipart.FileHeader
	Certificate *multipart.FileHeader
}

// Request opens a restaurant request that an admin reviews later.
func (s *restaurantService) Request(ctx context.Context, in RestaurantInput) (domain.Restaurant, error) {
	return s.create(ctx, in, RestaurantFiles{}, domain.RestaurantPending)
}

// Create is the direct admin path: the restaurant goes live immediately,
// bypassing review.
func (s *restaurantService) Create(ctx context.Context, in RestaurantInput) (domain.Restaurant, error) {
	return s.create(ctx, in, RestaurantFiles{}, domain.RestaurantApproved)
}

// RequestWithFiles validates the owner, persists the address (geocoding
// best-effort), uploads the attachments, then persists the restaurant as
// APPROVED. Any upload failure aborts the whole creation.
func (s *restaurantService) RequestWithFiles(ctx context.Context, in RestaurantInput, files RestaurantFiles) (domain.Restaurant, error) {
	return s.create(ctx, in, files, domain.RestaurantApproved)
}

func (s *restaurantService) create(ctx context.Context, in RestaurantInput, files RestaurantFiles, status domain.RestaurantStatus) (domain.Restaurant, error) {
	if in.Name == "" {
		logger.Error("Invalid restaurant data: name is required")
		return domain.Restaurant{}, errors.New("restaurant name is required")
	}

	owner, err := s.userRepo.FindByID(ctx, in.OwnerID)
	if err != nil {
		logger.Error("Restaurant owner not found", err)
		return domain.Restaurant{}, fmt.Errorf("owner not found: %w", err)
	}

	address := s.buildAddress(in)
	if err := s.addressRepo.Create(ctx, address); err != nil {
		logger.Error("Failed to create address", err)
		return domain.Restaurant{}, err
	}

	avatarURL, backgroundURL, certificateURL, err := s.uploadFiles(files)
	if err != nil {
		logger.Error("Failed to upload restaurant files", err)
		return domain.Restaurant{}, fmt.Errorf("upload failed: %w", err)
	}

	restaurant := domain.Restaurant{
		Name:           in.Name,
		Description:    in.Description,
		OpenTime:       in.OpenTime,
		CloseTime:      in.CloseTime,
		Status:         status,
		OwnerID:        owner.ID,
		AddressID:      address.ID,
		AvatarURL:      avatarURL,
		BackgroundURL:  backgroundURL,
		CertificateURL: certificateURL,
	}

	if err := s.restaurantRepo.Create(ctx, &restaurant); err != nil {
		logger.Error("Failed to create restaurant", err)
		return domain.Restaurant{}, err
	}

	restaurant.Owner = owner
	restaurant.Address = *address
	logger.Info("restaurant created", "id", restaurant.ID, "status", string(status))

	return restaurant, nil
}

// RestaurantUpdate is the allow-listed partial update; empty fields are
// left untouched.
type RestaurantUpdate struct {
	Name        string
	Description string
	OpenTime    string
	CloseTime   string
	OwnerID     string

	Street   string
	Ward     string
	District string
	City     string
}

// UpdateWithFiles merges the allow-listed fields, replaces any supplied
// attachments and persists. The previously referenced files are removed
// afterwards by a detached cleanup task whose failures are only logged.
func (s *restaurantService) UpdateWithFiles(ctx context.Context, id uint, upd RestaurantUpdate, files RestaurantFiles) (domain.Restaurant, error) {
	existing, err := s.restaurantRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Restaurant not found for update", err)
		return domain.Restaurant{}, err
	}

	if upd.OwnerID != "" && upd.OwnerID != existing.OwnerID {
		owner, err := s.userRepo.FindByID(ctx, upd.OwnerID)
		if err != nil {
			logger.Error("New restaurant owner not found", err)
			return domain.Restaurant{}, fmt.Errorf("owner not found: %w", err)
		}
		existing.OwnerID = owner.ID
		existing.Owner = owner
	}

	if upd.Name != "" {
		existing.Name = upd.Name
	}
	if upd.Description != "" {
		existing.Description = upd.Description
	}
	if upd.OpenTime != "" {
		existing.OpenTime = upd.OpenTime
	}
	if upd.CloseTime != "" {
		existing.CloseTime = upd.CloseTime
	}

	var replaced []string
	if files.Avatar != nil {
		url, err := s.uploader.Upload(files.Avatar, "avatars")
		if err != nil {
			logger.Error("Failed to upload avatar", err)
			return domain.Restaurant{}, fmt.Errorf("upload failed: %w", err)
		}
		if existing.AvatarURL != "" {
			replaced = append(replaced, existing.AvatarURL)
		}
		existing.AvatarURL = url
	}
	if files.Background != nil {
		url, err := s.uploader.Upload(files.Background, "backgrounds")
		if err != nil {
			logger.Error("Failed to upload background", err)
			return domain.Restaurant{}, fmt.Errorf("upload failed: %w", err)
		}
		if existing.BackgroundURL != "" {
			replaced = append(replaced, existing.BackgroundURL)
		}
		existing.BackgroundURL = url
	}
	if files.Certificate != nil {
		url, err := s.uploader.Upload(files.Certificate, "certificates")
		if err != nil {
			logger.Error("Failed to upload certificate", err)
			return domain.Restaurant{}, fmt.Errorf("upload failed: %w", err)
		}
		if existing.CertificateURL != "" {
			replaced = append(replaced, existing.CertificateURL)
		}
		existing.CertificateURL = url
	}

	if upd.Street != "" || upd.Ward != "" || upd.District != "" || upd.City != "" {
		if err := s.updateAddress(ctx, &existing, upd); err != nil {
			return domain.Restaurant{}, err
		}
	}

	if err := s.restaurantRepo.Update(ctx, &existing); err != nil {
		logger.Error("Failed to update restaurant", err)
		return domain.Restaurant{}, err
	}

	// old files are deleted only after the update is durable, off the
	// request path
	if len(replaced) > 0 {
		go s.cleanupFiles(replaced)
	}

	return existing, nil
}

// Approve moves a PENDING restaurant to APPROVED. Any other current status
// fails without mutating the record.
func (s *restaurantService) Approve(ctx context.Context, id uint) (domain.Restaurant, error) {
	return s.review(ctx, id, domain.RestaurantApproved)
}

// Reject moves a PENDING restaurant to REJECTED under the same precondition.
func (s *restaurantService) Reject(ctx context.Context, id uint) (domain.Restaurant, error) {
	return s.review(ctx, id, domain.RestaurantRejected)
}

func (s *restaurantService) review(ctx context.Context, id uint, next domain.RestaurantStatus) (domain.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Restaurant not found for review", err)
		return domain.Restaurant{}, err
	}

	if restaurant.Status != domain.RestaurantPending {
		logger.Error("Restaurant is not pending", "id", id, "status", string(restaurant.Status))
		return domain.Restaurant{}, fmt.Errorf("restaurant %d is %s: %w", id, restaurant.Status, domain.ErrInvalidTransition)
	}

	if err := s.restaurantRepo.UpdateStatus(ctx, id, domain.RestaurantPending, next); err != nil {
		logger.Error("Failed to update restaurant status", err)
		return domain.Restaurant{}, err
	}

	restaurant.Status = next
	logger.Info("restaurant reviewed", "id", id, "status", string(next))

	return restaurant, nil
}

// DeleteRequest removes a restaurant request. Once a request has been
// reviewed it can no longer be withdrawn.
func (s *restaurantService) DeleteRequest(ctx context.Context, id uint) error {
	restaurant, err := s.restaurantRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Restaurant not found for deletion", err)
		return err
	}

	if restaurant.Status != domain.RestaurantPending {
		logger.Error("Restaurant request already reviewed", "id", id, "status", string(restaurant.Status))
		return fmt.Errorf("restaurant %d is %s: %w", id, restaurant.Status, domain.ErrInvalidTransition)
	}

	return s.restaurantRepo.Delete(ctx, id)
}

func (s *restaurantService) FindByID(ctx context.Context, id uint) (domain.Restaurant, error) {
	return s.restaurantRepo.FindByID(ctx, id)
}

func (s *restaurantService) FindAll(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	return s.list(ctx, nil, req)
}

func (s *restaurantService) FindAllApproved(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	status := domain.RestaurantApproved
	return s.list(ctx, &status, req)
}

func (s *restaurantService) Requests(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	status := domain.RestaurantPending
	return s.list(ctx, &status, req)
}

func (s *restaurantService) list(ctx context.Context, status *domain.RestaurantStatus, req domain.PageRequest) (domain.Page, error) {
	req = req.Normalize()

	restaurants, total, err := s.restaurantRepo.FindPaged(ctx, status, req.Offset(), req.PageSize)
	if err != nil {
		logger.Error("Failed to list restaurants", err)
		return domain.Page{}, err
	}

	return domain.NewPage(restaurants, total, req), nil
}

// RestaurantPreview is the storefront card: enough to render a tile,
// nothing more.
type RestaurantPreview struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	City      string `json:"city"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

func (s *restaurantService) Preview(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	req = req.Normalize()

	status := domain.RestaurantApproved
	restaurants, total, err := s.restaurantRepo.FindPaged(ctx, &status, req.Offset(), req.PageSize)
	if err != nil {
		logger.Error("Failed to list restaurant previews", err)
		return domain.Page{}, err
	}

	previews := make([]RestaurantPreview, 0, len(restaurants))
	for _, rst := range restaurants {
		previews = append(previews, RestaurantPreview{
			ID:        rst.ID,
			Name:      rst.Name,
			AvatarURL: rst.AvatarURL,
			City:      rst.Address.City,
			OpenTime:  rst.OpenTime,
			CloseTime: rst.CloseTime,
		})
	}

	return domain.NewPage(previews, total, req), nil
}

// OrderCountByOwner resolves the owner's restaurant and counts its orders,
// optionally limited to one month ("2006-01").
func (s *restaurantService) OrderCountByOwner(ctx context.Context, ownerID string, month *string) (int64, error) {
	restaurant, err := s.restaurantRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("Restaurant not found for owner", err)
		return 0, err
	}

	return s.orderRepo.CountByRestaurant(ctx, restaurant.ID, month)
}

// RevenueByOwner sums the completed-order totals of the owner's restaurant.
func (s *restaurantService) RevenueByOwner(ctx context.Context, ownerID string, month *string) (float64, error) {
	restaurant, err := s.restaurantRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("Restaurant not found for owner", err)
		return 0, err
	}

	return s.orderRepo.RevenueByRestaurant(ctx, restaurant.ID, month)
}

// buildAddress uses caller-supplied coordinates when present, otherwise
// attempts geocoding. A geocoding failure leaves the coordinates nil and
// never fails the enclosing operation.
func (s *restaurantService) buildAddress(in RestaurantInput) *domain.Address {
	address := &domain.Address{
		Street:   in.Street,
		Ward:     in.Ward,
		District: in.District,
		City:     in.City,
	}

	if in.Latitude != nil && in.Longitude != nil {
		address.Latitude = in.Latitude
		address.Longitude = in.Longitude
		return address
	}

	coords, err := s.geocoder.Geocode(in.Street, in.Ward, in.District, in.City)
	if err != nil {
		logger.Warn("Geocoding failed, storing address without coordinates", err)
		return address
	}

	address.Latitude = &coords.Latitude
	address.Longitude = &coords.Longitude
	return address
}

func (s *restaurantService) updateAddress(ctx context.Context, restaurant *domain.Restaurant, upd RestaurantUpdate) error {
	address, err := s.addressRepo.FindByID(ctx, restaurant.AddressID)
	if err != nil {
		logger.Error("Address not found for update", err)
		return err
	}

	if upd.Street != "" {
		address.Street = upd.Street
	}
	if upd.Ward != "" {
		address.Ward = upd.Ward
	}
	if upd.District != "" {
		address.District = upd.District
	}
	if upd.City != "" {
		address.City = upd.City
	}

	// the address changed, so the old coordinates no longer apply
	address.Latitude = nil
	address.Longitude = nil
	if coords, err := s.geocoder.Geocode(address.Street, address.Ward, address.District, address.City); err != nil {
		logger.Warn("Geocoding failed on address update", err)
	} else {
		address.Latitude = &coords.Latitude
		address.Longitude = &coords.Longitude
	}

	if err := s.addressRepo.Update(ctx, &address); err != nil {
		logger.Error("Failed to update address", err)
		return err
	}

	restaurant.Address = address
	return nil
}

func (s *restaurantService) uploadFiles(files RestaurantFiles) (avatar, background, certificate string, err error) {
	if files.Avatar != nil {
		if avatar, err = s.uploader.Upload(files.Avatar, "avatars"); err != nil {
			return "", "", "", err
		}
	}
	if files.Background != nil {
		if background, err = s.uploader.Upload(files.Background, "backgrounds"); err != nil {
			return "", "", "", err
		}
	}
	if files.Certificate != nil {
		if certificate, err = s.uploader.Upload(files.Certificate, "certificates"); err != nil {
			return "", "", "", err
		}
	}
	return avatar, background, certificate, nil
}

func (s *restaurantService) cleanupFiles(urls []string) {
	for _, url := range urls {
		if err := s.uploader.Delete(url); err != nil {
			logger.Warn("Failed to delete replaced file", "url", url, "error", err)
		}
	}
}
