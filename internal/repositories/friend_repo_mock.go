package repositories

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"friendgift/internal/errs"
	"friendgift/internal/models"
)

// MockFriendRepository is an in-memory implementation of FriendRepository.
type MockFriendRepository struct {
	users   UserRepository
	friends map[string]models.Friend
	ideas   map[string][]models.GiftIdea // keyed by friend ID
	mu      sync.RWMutex
}

// NewMockFriendRepository creates a new instance of MockFriendRepository.
// users is consulted to reject friends for unknown owners.
func NewMockFriendRepository(users UserRepository) *MockFriendRepository {
	return &MockFriendRepository{
		users:   users,
		friends: make(map[string]models.Friend),
		ideas:   make(map[string][]models.GiftIdea),
	}
}

// findOwned must be called with r.mu held.
func (r *MockFriendRepository) findOwned(owner, id string) (models.Friend, error) {
	friend, ok := r.friends[id]
	if !ok || friend.OwnerUsername != owner {
		return models.Friend{}, fmt.Errorf("friend %s: %w", id, errs.ErrNotFound)
	}
	return friend, nil
}

// ListByOwner returns the owner's friends, oldest first.
func (r *MockFriendRepository) ListByOwner(owner string) ([]models.Friend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	friends := []models.Friend{}
	for _, f := range r.friends {
		if f.OwnerUsername == owner {
			friends = append(friends, f)
		}
	}
	sort.Slice(friends, func(i, j int) bool {
		if !friends[i].CreatedAt.Equal(friends[j].CreatedAt) {
			return friends[i].CreatedAt.Before(friends[j].CreatedAt)
		}
		return friends[i].ID < friends[j].ID
	})
	return friends, nil
}

// GetByOwnerAndID returns a friend owned by owner.
func (r *MockFriendRepository) GetByOwnerAndID(owner, id string) (*models.Friend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	friend, err := r.findOwned(owner, id)
	if err != nil {
		return nil, err
	}
	return &friend, nil
}

// Create adds a new friend.
func (r *MockFriendRepository) Create(friend *models.Friend) error {
	if _, err := r.users.GetByUsername(friend.OwnerUsername); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("owner %s: %w", friend.OwnerUsername, errs.ErrNotFound)
		}
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.friends[friend.ID]; ok {
		return fmt.Errorf("friend %s: %w", friend.ID, errs.ErrAlreadyExists)
	}
	stored := *friend
	stored.Ideas = nil
	r.friends[friend.ID] = stored
	return nil
}

// UpdateName renames an owned friend.
func (r *MockFriendRepository) UpdateName(owner, id, name string) (*models.Friend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	friend, err := r.findOwned(owner, id)
	if err != nil {
		return nil, err
	}
	friend.Name = name
	r.friends[id] = friend
	return &friend, nil
}

// Delete removes an owned friend and its ideas.
func (r *MockFriendRepository) Delete(owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.findOwned(owner, id); err != nil {
		return err
	}
	delete(r.friends, id)
	delete(r.ideas, id)
	return nil
}

// ListIdeas returns the ideas of an owned friend, newest first.
func (r *MockFriendRepository) ListIdeas(owner, friendID string) ([]models.GiftIdea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := r.findOwned(owner, friendID); err != nil {
		return nil, err
	}
	ideas := append([]models.GiftIdea{}, r.ideas[friendID]...)
	sort.Slice(ideas, func(i, j int) bool {
		if !ideas[i].CreatedAt.Equal(ideas[j].CreatedAt) {
			return ideas[i].CreatedAt.After(ideas[j].CreatedAt)
		}
		return ideas[i].ID > ideas[j].ID
	})
	return ideas, nil
}

// CreateIdea attaches an idea to an owned friend.
func (r *MockFriendRepository) CreateIdea(owner string, idea *models.GiftIdea) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.findOwned(owner, idea.FriendID); err != nil {
		return err
	}
	r.ideas[idea.FriendID] = append(r.ideas[idea.FriendID], *idea)
	return nil
}
