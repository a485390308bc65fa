package models

import "time"

// GiftIdea is a note attached to a Friend. Ideas are never edited.
type GiftIdea struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FriendID  string    `json:"-" gorm:"type:varchar(36);not null;index"`
	Text      string    `json:"text" gorm:"type:varchar(400);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

// GiftIdeaDTO is the wire representation of a GiftIdea.
type GiftIdeaDTO struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// DTO converts the entity to its wire form.
func (g GiftIdea) DTO() GiftIdeaDTO {
	return GiftIdeaDTO{ID: g.ID, Text: g.Text, CreatedAt: g.CreatedAt}
}
