package repositories

import "friendgift/internal/models"

// FriendRepository defines data access for friends and their gift ideas.
//
// Every method is scoped to an owner username. A friend owned by somebody else
// is reported exactly like a friend that does not exist (errs.ErrNotFound).
type FriendRepository interface {
	// ListByOwner returns the owner's friends, oldest first.
	ListByOwner(owner string) ([]models.Friend, error)
	// GetByOwnerAndID is the ownership-checked lookup every other method relies on.
	GetByOwnerAndID(owner, id string) (*models.Friend, error)
	// Create persists friend. It returns errs.ErrNotFound when the owner does not exist.
	Create(friend *models.Friend) error
	// UpdateName renames an owned friend and returns the updated row.
	UpdateName(owner, id, name string) (*models.Friend, error)
	// Delete removes an owned friend together with its ideas.
	Delete(owner, id string) error
	// ListIdeas returns the ideas of an owned friend, newest first.
	ListIdeas(owner, friendID string) ([]models.GiftIdea, error)
	// CreateIdea attaches idea to the owned friend idea.FriendID.
	CreateIdea(owner string, idea *models.GiftIdea) error
}
