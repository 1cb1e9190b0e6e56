package domain

import "time"

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password    string    `gorm:"size:1024;not null" json:"-"`
	DisplayName string    `gorm:"size:255;not null" json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}
