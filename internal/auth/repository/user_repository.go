package repository

import (
	"errors"
	"strings"
	"time"

	authdomain "mailreply-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements UserRepository on gorm
type userRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// findOne loads the first row matching the condition, or nil when there is none
func findOne[T any](db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	if err := db.Where(query, args...).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *userRepository) Create(user *authdomain.User) error {
	now := r.now()
	user.ID = uuid.New().String()
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt, user.UpdatedAt = now, now
	return r.db.Create(user).Error
}

func (r *userRepository) FindByEmail(email string) (*authdomain.User, error) {
	return findOne[authdomain.User](r.db, "email = ?", normalizeEmail(email))
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	return findOne[authdomain.User](r.db, "id = ?", id)
}

// Update writes the profile fields and password hash; email and provider are fixed at creation
func (r *userRepository) Update(user *authdomain.User) error {
	user.UpdatedAt = r.now()
	return r.db.Model(user).Select("name", "avatar_url", "password", "updated_at").Updates(user).Error
}
