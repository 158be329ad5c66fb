// Package repository wraps gorm access behind interfaces so the services
// can be exercised without a database. Token consumption is done with
// conditional updates keyed on the stored token value, so two concurrent
// attempts cannot both succeed.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shiftdesk-dev/shiftdesk/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no record, or a conditional
// update matches zero rows.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// ConsumeVerificationToken atomically flips the user to verified and
	// clears the token, keyed on the token value.
	ConsumeVerificationToken(ctx context.Context, token string) (*models.User, error)

	SetResetToken(ctx context.Context, email, token string, issuedAt time.Time) error
	ClearResetToken(ctx context.Context, username string) error

	// ConsumePasswordReset atomically clears the reset token and stores the
	// new password hash, keyed on username plus the token value.
	ConsumePasswordReset(ctx context.Context, username, token, passwordHash string) (*models.User, error)

	UpdateEmail(ctx context.Context, id uint, email string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) ConsumeVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User

	if err := r.db.WithContext(ctx).Where("verification_token = ?", token).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND verification_token = ?", user.ID, token).
		Updates(map[string]interface{}{
			"is_verified":        true,
			"verification_token": "",
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	user.IsVerified = true
	user.VerificationToken = ""
	return &user, nil
}

func (r *userRepository) SetResetToken(ctx context.Context, email, token string, issuedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"reset_token":           token,
			"reset_token_issued_at": issuedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) ClearResetToken(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Update("reset_token", "").Error
}

func (r *userRepository) ConsumePasswordReset(ctx context.Context, username, token, passwordHash string) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND reset_token = ? AND reset_token <> ''", username, token).
		Updates(map[string]interface{}{
			"reset_token":   "",
			"password_hash": passwordHash,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.FindByUsername(ctx, username)
}

func (r *userRepository) UpdateEmail(ctx context.Context, id uint, email string) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("email", email)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
