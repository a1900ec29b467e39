package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/farellandr/eventreg/internal/auth"
	"github.com/farellandr/eventreg/internal/models"
)

const minPasswordLength = 8

type RegisterUserInput struct {
	Username string
	Email    string
	Password string
}

type UserService struct {
	db           *gorm.DB
	passwordCost int
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, passwordCost: bcrypt.DefaultCost}
}

func (s *UserService) Register(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	return s.create(ctx, in, false)
}

func (s *UserService) CreateSuperuser(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	return s.create(ctx, in, true)
}

// EnsureSuperuser creates the superuser unless the username is already taken.
func (s *UserService) EnsureSuperuser(ctx context.Context, in RegisterUserInput) (bool, error) {
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", in.Username).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("check superuser: %w", err)
	}
	if existing > 0 {
		return false, nil
	}
	if _, err := s.CreateSuperuser(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) create(ctx context.Context, in RegisterUserInput, superuser bool) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	verr := &ValidationError{}
	checkText(verr, "username", in.Username, 150, true)
	if !validEmail(in.Email) {
		verr.add("email", "enter a valid email address")
	}
	if len(in.Password) < minPasswordLength {
		verr.add("password", fmt.Sprintf("ensure this field has at least %d characters", minPasswordLength))
	}
	if !verr.empty() {
		return nil, verr
	}

	db := s.db.WithContext(ctx)
	var taken []models.User
	if err := db.Where("username = ? OR email = ?", in.Username, in.Email).Find(&taken).Error; err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	for _, u := range taken {
		if u.Username == in.Username {
			verr.add("username", "a user with that username already exists")
		}
		if strings.EqualFold(u.Email, in.Email) {
			verr.add("email", "a user with that email already exists")
		}
	}
	if !verr.empty() {
		return nil, verr
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    string(hashedPassword),
		IsSuperuser: superuser,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError("username", "a user with that username or email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*auth.Actor, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return ActorFor(&user), nil
}

func (s *UserService) List(ctx context.Context, actor *auth.Actor) ([]models.User, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func ActorFor(user *models.User) *auth.Actor {
	return &auth.Actor{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsSuperuser: user.IsSuperuser,
	}
}
