package repositories

import (
	"errors"
	"fmt"

	"friendgift/internal/errs"
	"friendgift/internal/models"

	"gorm.io/gorm"
)

// GORMFriendRepository is a GORM implementation of FriendRepository.
type GORMFriendRepository struct {
	db *gorm.DB
}

// NewGORMFriendRepository creates a new instance of GORMFriendRepository.
func NewGORMFriendRepository(db *gorm.DB) *GORMFriendRepository {
	return &GORMFriendRepository{
		db: db,
	}
}

// ownedBy restricts a friend query to rows of owner.
func ownedBy(owner string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_username = ?", owner)
	}
}

// findOwned runs the ownership-checked lookup on db (which may be a transaction).
func findOwned(db *gorm.DB, owner, id string) (*models.Friend, error) {
	var friend models.Friend
	if err := db.Scopes(ownedBy(owner)).First(&friend, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("friend %s: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get friend %s: %w", id, err)
	}
	return &friend, nil
}

// ListByOwner retrieves the owner's friends ordered by creation time.
func (r *GORMFriendRepository) ListByOwner(owner string) ([]models.Friend, error) {
	friends := []models.Friend{}
	err := r.db.Scopes(ownedBy(owner)).
		Order("created_at asc").
		Order("id asc").
		Find(&friends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friends of %s: %w", owner, err)
	}
	return friends, nil
}

// GetByOwnerAndID retrieves a single friend owned by owner.
func (r *GORMFriendRepository) GetByOwnerAndID(owner, id string) (*models.Friend, error) {
	return findOwned(r.db, owner, id)
}

// Create creates a new friend in the database.
func (r *GORMFriendRepository) Create(friend *models.Friend) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", friend.OwnerUsername).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check owner %s: %w", friend.OwnerUsername, err)
		}
		if count == 0 {
			return fmt.Errorf("owner %s: %w", friend.OwnerUsername, errs.ErrNotFound)
		}
		if err := tx.Omit("Ideas").Create(friend).Error; err != nil {
			return fmt.Errorf("failed to create friend: %w", err)
		}
		return nil
	})
}

// UpdateName renames an owned friend.
func (r *GORMFriendRepository) UpdateName(owner, id, name string) (*models.Friend, error) {
	var updated *models.Friend
	err := r.db.Transaction(func(tx *gorm.DB) error {
		friend, err := findOwned(tx, owner, id)
		if err != nil {
			return err
		}
		if err := tx.Model(friend).Update("name", name).Error; err != nil {
			return fmt.Errorf("failed to update friend %s: %w", id, err)
		}
		friend.Name = name
		updated = friend
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete deletes an owned friend and its ideas.
func (r *GORMFriendRepository) Delete(owner, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		friend, err := findOwned(tx, owner, id)
		if err != nil {
			return err
		}
		if err := tx.Where("friend_id = ?", friend.ID).Delete(&models.GiftIdea{}).Error; err != nil {
			return fmt.Errorf("failed to delete ideas of friend %s: %w", id, err)
		}
		if err := tx.Delete(friend).Error; err != nil {
			return fmt.Errorf("failed to delete friend %s: %w", id, err)
		}
		return nil
	})
}

// ListIdeas retrieves the ideas of an owned friend, newest first.
func (r *GORMFriendRepository) ListIdeas(owner, friendID string) ([]models.GiftIdea, error) {
	ideas := []models.GiftIdea{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned(tx, owner, friendID); err != nil {
			return err
		}
		err := tx.Where("friend_id = ?", friendID).
			Order("created_at desc").
			Order("id desc").
			Find(&ideas).Error
		if err != nil {
			return fmt.Errorf("failed to list ideas of friend %s: %w", friendID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ideas, nil
}

// CreateIdea creates a new idea under an owned friend.
func (r *GORMFriendRepository) CreateIdea(owner string, idea *models.GiftIdea) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned(tx, owner, idea.FriendID); err != nil {
			return err
		}
		if err := tx.Create(idea).Error; err != nil {
			return fmt.Errorf("failed to create idea: %w", err)
		}
		return nil
	})
}
