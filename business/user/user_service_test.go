package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hungryHub/domain"
	psqlRepo "hungryHub/internal/repository/postgres"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const testVerificationKey = "0123456789abcdef0123456789abcdef"

type fakeNotifier struct {
	toEmail string
	message string
	sent    int
}

func (f *fakeNotifier) SendEmail(toName, toEmail, subject, message string) error {
	f.toEmail = toEmail
	f.message = message
	f.sent++
	return nil
}

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Permission{}, &domain.Role{}, &domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin, domain.RoleOwner, domain.RoleShipper} {
		role := domain.Role{Name: name}
		if err := db.Where(domain.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			t.Fatalf("seed role %s: %v", name, err)
		}
	}
	return db
}

func newService(db *gorm.DB, notifier NotificationRepository) *userService {
	return NewUserService(
		psqlRepo.NewUserRepository(db),
		psqlRepo.NewRoleRepository(db),
		notifier,
		validator.New(),
		testVerificationKey,
		"https://api.example.com",
	)
}

func TestRegisterGeneratesIDAndDefaultRole(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Nguyen",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(created.ID) != 28 {
		t.Fatalf("expected 28-char id, got %q (%d)", created.ID, len(created.ID))
	}
	if created.Role.Name != domain.RoleUser {
		t.Fatalf("expected default USER role, got %q", created.Role.Name)
	}
	if created.Password != "" {
		t.Fatalf("returned user must not carry the password hash")
	}

	var stored domain.User
	if err := db.First(&stored, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.Password == "" || stored.Password == "secret123" {
		t.Fatalf("stored password must be hashed")
	}
	if stored.IsVerified {
		t.Fatalf("self-registered accounts start unverified")
	}
	if stored.AuthProvider != domain.AuthProviderLocal {
		t.Fatalf("expected LOCAL provider, got %q", stored.AuthProvider)
	}
}

func TestRegisterKeepsExternalID(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{
		Username:     "bob",
		Email:        "bob@example.com",
		Password:     "secret123",
		ExternalID:   "google-oauth2-subject-000001",
		AuthProvider: domain.AuthProviderGoogle,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID != "google-oauth2-subject-000001" {
		t.Fatalf("externally issued id must be kept, got %q", created.ID)
	}
	if created.AuthProvider != domain.AuthProviderGoogle {
		t.Fatalf("expected GOOGLE provider, got %q", created.AuthProvider)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeNotifier{})
	ctx := context.Background()

	first := RegisterInput{Username: "carol", Email: "carol@example.com", Password: "secret123"}
	if _, err := svc.Register(ctx, first); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Register(ctx, RegisterInput{Username: "carol", Email: "other@example.com", Password: "secret123"}); err == nil {
		t.Fatalf("expected duplicate username error")
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "other", Email: "carol@example.com", Password: "secret123"}); err == nil {
		t.Fatalf("expected duplicate email error")
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "x", Email: "not-an-email", Password: "secret123"}); err == nil {
		t.Fatalf("expected invalid email error")
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "x", Email: "x@example.com", Password: "short"}); err == nil {
		t.Fatalf("expected short password error")
	}
}

func TestCreatePrivilegedPath(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Username: "admin-made",
		Email:    "staff@example.com",
		Password: "secret123",
		RoleName: domain.RoleShipper,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Role.Name != domain.RoleShipper {
		t.Fatalf("expected SHIPPER role, got %q", created.Role.Name)
	}
	if !created.IsVerified {
		t.Fatalf("admin-created accounts are verified")
	}

	if _, err := svc.Create(ctx, CreateInput{
		Username: "no-role",
		Email:    "norole@example.com",
		Password: "secret123",
		RoleName: "NO_SUCH_ROLE",
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown role, got %v", err)
	}
}

func TestUpdateMeDropsRoleChange(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{Username: "dave", Email: "dave@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateMe(ctx, created.ID, UserUpdate{FullName: "Dave Tran", RoleName: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("update me: %v", err)
	}
	if updated.FullName != "Dave Tran" {
		t.Fatalf("expected name change, got %q", updated.FullName)
	}
	if updated.Role.Name != domain.RoleUser {
		t.Fatalf("self-service update must not escalate the role, got %q", updated.Role.Name)
	}

	// the privileged path does honor the role field
	updated, err = svc.Update(ctx, created.ID, UserUpdate{RoleName: domain.RoleOwner})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role.Name != domain.RoleOwner {
		t.Fatalf("expected role change on admin path, got %q", updated.Role.Name)
	}
}

func TestLoginAndLastLoginTouch(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{Username: "erin", Email: "erin@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, account, err := svc.Login(ctx, "erin", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if account.LastLogin == nil {
		t.Fatalf("expected last login to be touched")
	}

	var stored domain.User
	if err := db.First(&stored, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.LastLogin == nil {
		t.Fatalf("last login must be persisted")
	}

	if _, _, err := svc.Login(ctx, "erin", "wrong-password"); err == nil {
		t.Fatalf("expected invalid credentials")
	}
	if _, _, err := svc.Login(ctx, "nobody", "secret123"); err == nil {
		t.Fatalf("expected invalid credentials for unknown user")
	}
}

func TestVerifyEmailRoundTrip(t *testing.T) {
	db := setupTestDB(t, t.Name())
	notifier := &fakeNotifier{}
	svc := newService(db, notifier)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{Username: "frank", Email: "frank@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if notifier.sent != 1 {
		t.Fatalf("expected one verification email, got %d", notifier.sent)
	}

	marker := "/api/v1/users/email-verification/"
	idx := strings.Index(notifier.message, marker)
	if idx < 0 {
		t.Fatalf("verification link missing from email: %q", notifier.message)
	}
	code := notifier.message[idx+len(marker):]
	if end := strings.IndexAny(code, "<\n "); end >= 0 {
		code = code[:end]
	}

	if err := svc.VerifyEmail(ctx, code); err != nil {
		t.Fatalf("verify email: %v", err)
	}

	var stored domain.User
	if err := db.First(&stored, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !stored.IsVerified {
		t.Fatalf("expected verified account")
	}

	// a second use of the same link must fail
	if err := svc.VerifyEmail(ctx, code); err == nil {
		t.Fatalf("expected replayed link to fail")
	}

	if err := svc.VerifyEmail(ctx, "garbage"); err == nil {
		t.Fatalf("expected garbage code to fail")
	}
}

func TestListProjectsUserView(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "gina", Email: "gina@example.com", FullName: "Gina Le", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	page, err := svc.List(ctx, domain.PageRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	views, ok := page.Items.([]domain.UserView)
	if !ok {
		t.Fatalf("unexpected items type %T", page.Items)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 user, got %d", len(views))
	}
	if views[0].Status != "Never" {
		t.Fatalf("never-logged-in account should read Never, got %q", views[0].Status)
	}
	if views[0].Name != "Gina Le" {
		t.Fatalf("expected full name projection, got %q", views[0].Name)
	}
	if _, err := time.Parse("02/01/2006", views[0].CreatedAt); err != nil {
		t.Fatalf("created at must be dd/mm/yyyy, got %q", views[0].CreatedAt)
	}
}

func TestActivityStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	if got := activityStatus(nil, now); got != "Never" {
		t.Fatalf("expected Never, got %q", got)
	}

	today := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	if got := activityStatus(&today, now); got != "Active" {
		t.Fatalf("same-day login should be Active, got %q", got)
	}

	threeDays := time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC)
	if got := activityStatus(&threeDays, now); got != "3 days ago" {
		t.Fatalf("expected 3 days ago, got %q", got)
	}
}

func TestDeleteMissingUser(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newService(db, &fakeNotifier{})
	ctx := context.Background()

	if err := svc.Delete(ctx, "missing0000000000000000000001"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
