package services

import (
	"errors"
	"fmt"
	"time"

	"friendgift/internal/errs"
	"friendgift/internal/models"
	"friendgift/internal/repositories"

	"go.uber.org/zap"
)

const day = 24 * time.Hour

// SeedDemoData creates the demo accounts unless user "omar" already exists.
// It reports whether anything was written.
func SeedDemoData(users repositories.UserRepository, friends repositories.FriendRepository, now time.Time, logger *zap.Logger) (bool, error) {
	_, err := users.GetByUsername("omar")
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return false, fmt.Errorf("failed to check demo data: %w", err)
	}

	now = now.UTC().Truncate(time.Microsecond)
	for _, u := range []string{"omar", "alice"} {
		if err := users.Create(&models.User{Username: u, Password: "password", CreatedAt: now}); err != nil {
			return false, fmt.Errorf("failed to seed user %s: %w", u, err)
		}
	}

	type seedFriend struct {
		owner   string
		name    string
		age     time.Duration
		idea    string
		ideaAge time.Duration
	}
	seeds := []seedFriend{
		{owner: "omar", name: "Hassan", age: 2 * day, idea: "Montre connectée", ideaAge: day},
		{owner: "omar", name: "Sarah", age: day, idea: "Livre de cuisine", ideaAge: time.Hour},
		{owner: "alice", name: "Bob", age: 2 * time.Hour},
	}
	for _, sf := range seeds {
		id, err := newID()
		if err != nil {
			return false, err
		}
		friend := &models.Friend{ID: id, OwnerUsername: sf.owner, Name: sf.name, CreatedAt: now.Add(-sf.age)}
		if err := friends.Create(friend); err != nil {
			return false, fmt.Errorf("failed to seed friend %s: %w", sf.name, err)
		}
		if sf.idea == "" {
			continue
		}
		ideaID, err := newID()
		if err != nil {
			return false, err
		}
		idea := &models.GiftIdea{ID: ideaID, FriendID: id, Text: sf.idea, CreatedAt: now.Add(-sf.ideaAge)}
		if err := friends.CreateIdea(sf.owner, idea); err != nil {
			return false, fmt.Errorf("failed to seed idea for %s: %w", sf.name, err)
		}
	}

	logger.Info("demo data seeded", zap.Int("users", 2), zap.Int("friends", len(seeds)))
	return true, nil
}
