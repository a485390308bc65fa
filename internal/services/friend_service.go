package services

import (
	"errors"
	"fmt"
	"time"

	"friendgift/internal/errs"
	"friendgift/internal/models"
	"friendgift/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FriendService is the ownership-scoped store for friends and gift ideas.
// Every method takes the caller's username; rows of other users are never
// visible and behave as if they did not exist.
type FriendService struct {
	repo   repositories.FriendRepository
	norm   *normalizer
	logger *zap.Logger
	now    func() time.Time
}

// NewFriendService creates a new FriendService.
func NewFriendService(repo repositories.FriendRepository, logger *zap.Logger) *FriendService {
	return &FriendService{
		repo:   repo,
		norm:   newNormalizer(),
		logger: logger,
		now:    time.Now,
	}
}

// newID returns a time-ordered UUID so ties on created_at keep insertion order.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

func (s *FriendService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// ListFriends returns the caller's friends, oldest first. It never returns nil.
func (s *FriendService) ListFriends(caller string) ([]models.FriendDTO, error) {
	friends, err := s.repo.ListByOwner(caller)
	if err != nil {
		return nil, err
	}
	out := make([]models.FriendDTO, 0, len(friends))
	for _, f := range friends {
		out = append(out, f.DTO())
	}
	return out, nil
}

// AddFriend creates a friend owned by caller.
func (s *FriendService) AddFriend(caller, name string) (*models.FriendDTO, error) {
	clean, ok := s.norm.friendName(name)
	if !ok {
		return nil, fmt.Errorf("friend name: %w", errs.ErrInvalidInput)
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}

	friend := &models.Friend{
		ID:            id,
		OwnerUsername: caller,
		Name:          clean,
		CreatedAt:     s.timestamp(),
	}
	if err := s.repo.Create(friend); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("unknown owner %s: %w", caller, errs.ErrInvalidInput)
		}
		return nil, err
	}

	s.logger.Debug("friend added", zap.String("owner", caller), zap.String("friend_id", id))
	dto := friend.DTO()
	return &dto, nil
}

// FindFriend is the ownership-checked lookup. It returns errs.ErrNotFound both
// for unknown ids and for friends of other users.
func (s *FriendService) FindFriend(caller, friendID string) (*models.Friend, error) {
	return s.repo.GetByOwnerAndID(caller, friendID)
}

// UpdateFriend renames a friend. Existence is checked before the name, so an
// unknown friend with a bad name is reported as errs.ErrNotFound.
func (s *FriendService) UpdateFriend(caller, friendID, name string) (*models.FriendDTO, error) {
	if _, err := s.FindFriend(caller, friendID); err != nil {
		return nil, err
	}
	clean, ok := s.norm.friendName(name)
	if !ok {
		return nil, fmt.Errorf("friend name: %w", errs.ErrInvalidInput)
	}

	friend, err := s.repo.UpdateName(caller, friendID, clean)
	if err != nil {
		return nil, err
	}
	dto := friend.DTO()
	return &dto, nil
}

// DeleteFriend removes an owned friend and its ideas. It reports whether a
// friend was removed.
func (s *FriendService) DeleteFriend(caller, friendID string) (bool, error) {
	if err := s.repo.Delete(caller, friendID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	s.logger.Debug("friend deleted", zap.String("owner", caller), zap.String("friend_id", friendID))
	return true, nil
}

// ListIdeas returns the ideas of an owned friend, newest first. A missing or
// foreign friend yields an empty list.
func (s *FriendService) ListIdeas(caller, friendID string) ([]models.GiftIdeaDTO, error) {
	ideas, err := s.repo.ListIdeas(caller, friendID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return []models.GiftIdeaDTO{}, nil
		}
		return nil, err
	}
	out := make([]models.GiftIdeaDTO, 0, len(ideas))
	for _, i := range ideas {
		out = append(out, i.DTO())
	}
	return out, nil
}

// AddIdea attaches an idea to an owned friend. Bad text and a missing or
// foreign friend are both reported as errs.ErrInvalidInput.
func (s *FriendService) AddIdea(caller, friendID, text string) (*models.GiftIdeaDTO, error) {
	clean, ok := s.norm.ideaText(text)
	if !ok {
		return nil, fmt.Errorf("idea text: %w", errs.ErrInvalidInput)
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}

	idea := &models.GiftIdea{
		ID:        id,
		FriendID:  friendID,
		Text:      clean,
		CreatedAt: s.timestamp(),
	}
	if err := s.repo.CreateIdea(caller, idea); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("friend %s: %w", friendID, errs.ErrInvalidInput)
		}
		return nil, err
	}
	dto := idea.DTO()
	return &dto, nil
}
