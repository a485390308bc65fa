package models

import "time"

// User is a registered account. The username is the identity and never changes.
type User struct {
	Username  string    `json:"username" gorm:"primaryKey;type:varchar(32)"`
	Password  string    `json:"-" gorm:"type:varchar(72);not null"` // stored verbatim
	CreatedAt time.Time `json:"-" gorm:"not null"`
	Friends   []Friend  `json:"-" gorm:"foreignKey:OwnerUsername;references:Username;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName avoids the reserved word "user" on postgres.
func (User) TableName() string {
	return "app_user"
}
