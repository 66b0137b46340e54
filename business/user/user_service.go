package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hungryHub/domain"
	"hungryHub/pkg/logger"
	"hungryHub/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/pobyzaarif/goshortcute"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindPaged(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, hashed string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateEmailVerification(ctx context.Context, id string, isVerified bool) error
	Delete(ctx context.Context, id string) error
}

// RoleRepository contract interface
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (domain.Role, error)
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) error
}

type userService struct {
	userRepo                UserRepository
	roleRepo                RoleRepository
	notifRepo               NotificationRepository
	validate                *validator.Validate
	appEmailVerificationKey string
	appDeploymentUrl        string
}

const (
	verificationCodeTTL    = 15
	SubjectVerifyAccount   = "Confirm your HungryHub account"
	EmailBodyVerifyAccount = `Hi %v, please confirm your account by opening the link below</br></br>%v</br>note: the link is only valid for %v minutes`
)

func NewUserService(
	userRepo UserRepository,
	roleRepo RoleRepository,
	notifRepo NotificationRepository,
	validate *validator.Validate,
	appEmailVerificationKey string,
	appDeploymentUrl string,
) *userService {
	return &userService{
		userRepo:                userRepo,
		roleRepo:                roleRepo,
		notifRepo:               notifRepo,
		validate:                validate,
		appEmailVerificationKey: appEmailVerificationKey,
		appDeploymentUrl:        appDeploymentUrl,
	}
}

type RegisterInput struct {
	Username     string
	Email        string
	FullName     string
	Password     string
	ExternalID   string
	AuthProvider string
}

// Register creates a self-service account on the default USER role. An
// externally issued identity keeps its id; everyone else gets a generated
// 28-character one.
func (s *userService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := s.validate.Var(in.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(in.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	if existing, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil && existing.ID != "" {
		logger.Error("Username already exists")
		return domain.User{}, errors.New("username already exists")
	}

	if existing, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil && existing.ID != "" {
		logger.Error("Email already exists")
		return domain.User{}, errors.New("email already exists")
	}

	role, err := s.roleRepo.FindByName(ctx, domain.RoleUser)
	if err != nil {
		logger.Error("Default role not found", err)
		return domain.User{}, fmt.Errorf("role not found: %w", err)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	id := in.ExternalID
	provider := in.AuthProvider
	if id == "" {
		id = utils.GenerateUserID()
	}
	if provider == "" {
		provider = domain.AuthProviderLocal
	}

	newUser := domain.User{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Password:     hashed,
		RoleID:       role.ID,
		Role:         role,
		AuthProvider: provider,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	s.sendVerificationEmail(newUser)

	newUser.Password = ""
	return newUser, nil
}

type CreateInput struct {
	Username string
	Email    string
	FullName string
	Password string
	RoleName string
}

// Create is the privileged path: the role is supplied explicitly and a
// missing role aborts creation.
func (s *userService) Create(ctx context.Context, in CreateInput) (domain.User, error) {
	if err := s.validate.Var(in.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	role, err := s.roleRepo.FindByName(ctx, in.RoleName)
	if err != nil {
		logger.Error("Role not found", err)
		return domain.User{}, fmt.Errorf("role not found: %w", err)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		ID:       utils.GenerateUserID(),
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
		Password: hashed,
		RoleID:   role.ID,
		Role:     role,
		// accounts created by an admin skip the verification mail
		IsVerified: true,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	newUser.Password = ""
	return newUser, nil
}

// UserUpdate is the allow-listed partial update. Empty fields stay untouched;
// anything not listed here cannot be changed through an update call.
type UserUpdate struct {
	Username string
	Email    string
	FullName string
	Password string
	RoleName string
}

func (s *userService) Update(ctx context.Context, id string, upd UserUpdate) (domain.User, error) {
	existing, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, err
	}

	if upd.Username != "" {
		other, err := s.userRepo.FindByUsername(ctx, upd.Username)
		if err == nil && other.ID != id {
			logger.Error("Username already exists")
			return domain.User{}, errors.New("username already exists")
		}
		existing.Username = upd.Username
	}

	if upd.Email != "" {
		if err := s.validate.Var(upd.Email, "required,email"); err != nil {
			logger.Error("Invalid email format", err)
			return domain.User{}, errors.New("invalid email format")
		}
		other, err := s.userRepo.FindByEmail(ctx, upd.Email)
		if err == nil && other.ID != id {
			logger.Error("Email already exists")
			return domain.User{}, errors.New("email already exists")
		}
		existing.Email = upd.Email
	}

	if upd.FullName != "" {
		existing.FullName = upd.FullName
	}

	if upd.Password != "" {
		if err := s.validate.Var(upd.Password, "required,min=6"); err != nil {
			logger.Error("Invalid password", err)
			return domain.User{}, errors.New("password must be at least 6 characters")
		}
		hashed, err := utils.HashPassword(upd.Password)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return domain.User{}, errors.New("failed to hash password")
		}
		existing.Password = hashed
	}

	if upd.RoleName != "" {
		role, err := s.roleRepo.FindByName(ctx, upd.RoleName)
		if err != nil {
			logger.Error("Role not found", err)
			return domain.User{}, fmt.Errorf("role not found: %w", err)
		}
		existing.RoleID = role.ID
		existing.Role = role
	}

	if err := s.userRepo.Update(ctx, &existing); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	existing.Password = ""
	return existing, nil
}

// UpdateMe is the self-service path. Whatever role the caller put in the
// payload is dropped before the merge.
func (s *userService) UpdateMe(ctx context.Context, id string, upd UserUpdate) (domain.User, error) {
	upd.RoleName = ""
	return s.Update(ctx, id, upd)
}

func (s *userService) UpdatePassword(ctx context.Context, id, newPassword string) error {
	if err := s.validate.Var(newPassword, "required,min=6"); err != nil {
		logger.Error("Invalid password", err)
		return errors.New("password must be at least 6 characters")
	}

	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		logger.Error("User not found for password update", err)
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return errors.New("failed to hash password")
	}

	return s.userRepo.UpdatePassword(ctx, id, hashed)
}

func (s *userService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, errors.New("invalid credentials")
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.Error("User password incorrect")
		return "", domain.User{}, errors.New("invalid credentials")
	}

	token, err := utils.GenerateJWT(user.ID, user.Role.Name)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn("Failed to touch last login", err)
	}
	user.LastLogin = &now

	user.Password = ""
	return token, user, nil
}

func (s *userService) VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error {
	strDecode := goshortcute.StringtoBase64Decode(verificationCodeEncrypt)
	verificationCodeDecrypt, err := goshortcute.AESCBCDecrypt([]byte(strDecode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("invalid or expired url")
	}

	verificationCode := strings.Split(verificationCodeDecrypt, "|")
	if len(verificationCode) != 2 {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}

	userID := verificationCode[0]

	ts, err := strconv.ParseInt(verificationCode[1], 10, 64)
	if err != nil {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}
	if time.Now().After(time.Unix(ts, 0)) {
		return errors.New("invalid or expired url")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("invalid or expired url")
	}

	if user.IsVerified {
		return errors.New("invalid or expired url")
	}

	if err := s.userRepo.UpdateEmailVerification(ctx, user.ID, true); err != nil {
		logger.Error("Verify email err", err)
		return err
	}

	return nil
}

func (s *userService) FindByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

func (s *userService) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		logger.Error("Failed to get user by username", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Failed to get user by email", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// List returns the projected admin view: no password hash, formatted
// creation date, and a derived activity status.
func (s *userService) List(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	req = req.Normalize()

	users, total, err := s.userRepo.FindPaged(ctx, req.Offset(), req.PageSize)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return domain.Page{}, err
	}

	now := time.Now()
	views := make([]domain.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, domain.UserView{
			ID:        u.ID,
			Name:      u.FullName,
			Email:     u.Email,
			CreatedAt: u.CreatedAt.Format("02/01/2006"),
			Status:    activityStatus(u.LastLogin, now),
		})
	}

	return domain.NewPage(views, total, req), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		logger.Error("User not found for deletion", err)
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return err
	}

	return nil
}

// activityStatus is "Active" when the last login falls on today's date,
// otherwise the whole-day distance. Accounts that never logged in say so.
func activityStatus(lastLogin *time.Time, now time.Time) string {
	if lastLogin == nil {
		return "Never"
	}

	ly, lm, ld := lastLogin.Date()
	ny, nm, nd := now.Date()
	if ly == ny && lm == nm && ld == nd {
		return "Active"
	}

	loginDay := time.Date(ly, lm, ld, 0, 0, 0, 0, lastLogin.Location())
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	days := int(today.Sub(loginDay).Hours() / 24)

	return fmt.Sprintf("%d days ago", days)
}

func (s *userService) sendVerificationEmail(user domain.User) {
	if s.notifRepo == nil || s.appEmailVerificationKey == "" {
		return
	}

	expAt := time.Now().Add(time.Minute * verificationCodeTTL).Unix()
	code := fmt.Sprintf("%v|%v", user.ID, expAt)

	encrypted, err := goshortcute.AESCBCEncrypt([]byte(code), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Warn("Failed to build verification link", err)
		return
	}
	encoded := goshortcute.StringtoBase64Encode(encrypted)
	link := s.appDeploymentUrl + "/api/v1/users/email-verification/" + encoded

	body := fmt.Sprintf(EmailBodyVerifyAccount, user.FullName, link, verificationCodeTTL)
	if err := s.notifRepo.SendEmail(user.FullName, user.Email, SubjectVerifyAccount, body); err != nil {
		logger.Warn("Failed to send verification email", err)
	}
}
