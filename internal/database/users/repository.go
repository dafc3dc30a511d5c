// Package users provides database operations for user account management,
// including the admin-safety guards on role changes and deletion.
package users

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"estante/internal/database"
	"estante/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetAll() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, database.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", email, database.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("role = ?", entities.UserRoleAdmin).Count(&count).Error
	return count, err
}

// UpdateRole changes a user's role. Demoting the sole remaining admin fails
// with ErrLastAdmin.
func (r *Repository) UpdateRole(id uint, role entities.UserRole) (*entities.User, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Same-transaction guard read, so concurrent demotions cannot both
		// see a second admin.
		var user entities.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", id, database.ErrNotFound)
			}
			return err
		}

		if user.Role == entities.UserRoleAdmin && role != entities.UserRoleAdmin {
			var admins int64
			err := tx.Model(&entities.User{}).
				Where("role = ?", entities.UserRoleAdmin).
				Count(&admins).Error
			if err != nil {
				return err
			}
			if admins <= 1 {
				return fmt.Errorf("user %q is the only admin: %w", user.Username, database.ErrLastAdmin)
			}
		}

		return tx.Model(&user).Update("role", role).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// UpdateProfile applies profile edits (name, avatar).
func (r *Repository) UpdateProfile(id uint, name, avatarURL *string) (*entities.User, error) {
	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if name != nil {
		updates["name"] = *name
	}
	if avatarURL != nil {
		updates["avatar_url"] = *avatarURL
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := r.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes a user account. The acting admin cannot delete themselves,
// and the last remaining admin cannot be deleted. The user's favorites,
// reading history and comments go with the account; books rated by approved
// comments of the user get their rating recomputed in the same transaction.
func (r *Repository) Delete(id, actingUserID uint) error {
	if id == actingUserID {
		return fmt.Errorf("user %d: %w", id, database.ErrSelfDelete)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		// Guard reads run inside the transaction so two concurrent admin
		// deletions cannot both pass the last-admin check.
		var user entities.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", id, database.ErrNotFound)
			}
			return err
		}

		if user.Role == entities.UserRoleAdmin {
			var admins int64
			err := tx.Model(&entities.User{}).
				Where("role = ?", entities.UserRoleAdmin).
				Count(&admins).Error
			if err != nil {
				return err
			}
			if admins <= 1 {
				return fmt.Errorf("user %q is the only admin: %w", user.Username, database.ErrLastAdmin)
			}
		}

		// Books whose rating depends on this user's approved rated comments
		// need a recompute once those comments are gone.
		var ratedBookIDs []uint
		err := tx.Model(&entities.Comment{}).
			Where("user_id = ? AND is_approved = ? AND rating IS NOT NULL", id, true).
			Distinct().Pluck("book_id", &ratedBookIDs).Error
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.ReadingHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}

		for _, bookID := range ratedBookIDs {
			if err := database.RecomputeBookRating(tx, bookID); err != nil {
				return err
			}
		}
		return nil
	})
}
