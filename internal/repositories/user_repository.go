package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/storefront/catalog/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByRefreshToken(token string) (*models.User, error)
	SaveRefreshToken(userID uint, token string) error
	ClearRefreshToken(userID uint) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	err := r.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailExists
	}
	return err
}

func (r *UserRepositoryImpl) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByRefreshToken matches the stored token exactly. A cleared or rotated
// token therefore stops matching immediately.
func (r *UserRepositoryImpl) FindByRefreshToken(token string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "refresh_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SaveRefreshToken overwrites whatever token was stored before; each user
// has at most one active refresh token.
func (r *UserRepositoryImpl) SaveRefreshToken(userID uint, token string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token", token).Error
}

func (r *UserRepositoryImpl) ClearRefreshToken(userID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token", nil).Error
}
