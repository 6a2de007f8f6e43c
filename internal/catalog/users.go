package catalog

import (
	"time"

	"gorm.io/gorm"

	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/pkg/common"
)

// UserRepo persists catalog accounts. Passwords arrive already hashed, the
// credential service owns hashing.
type UserRepo struct{}

func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

// Create registers a new account, ErrConflict when the email is taken.
func (r *UserRepo) Create(db *gorm.DB, email, passwordHash string) (*domain.User, error) {
	user := domain.User{
		ID:       common.UUIDint64(),
		Email:    email,
		Password: passwordHash,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepo) Get(db *gorm.DB, id int64) (*domain.User, error) {
	var user domain.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdatePassword replaces the stored hash, all other fields are untouched.
func (r *UserRepo) UpdatePassword(db *gorm.DB, user *domain.User, passwordHash string) error {
	return translate(db.Model(user).Updates(map[string]interface{}{
		"password":   passwordHash,
		"updated_at": time.Now(),
	}).Error)
}
