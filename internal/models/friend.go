package models

import "time"

// Friend is a person on a user's list. Owner and ID are fixed at creation.
type Friend struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerUsername string     `json:"-" gorm:"type:varchar(32);not null;index"`
	Name          string     `json:"name" gorm:"type:varchar(80);not null"`
	CreatedAt     time.Time  `json:"-" gorm:"not null"`
	Ideas         []GiftIdea `json:"-" gorm:"foreignKey:FriendID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// FriendDTO is the wire representation of a Friend.
type FriendDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DTO converts the entity to its wire form.
func (f Friend) DTO() FriendDTO {
	return FriendDTO{ID: f.ID, Name: f.Name}
}
