package domain

import "time"

// Address is stored as a single JSON column on the member row.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone     string    `gorm:"size:32;not null" json:"phone"`
	SSN       string    `gorm:"column:ssn;uniqueIndex;size:16;not null" json:"ssn"`
	DOB       string    `gorm:"size:16;not null" json:"dob"`
	Address   Address   `gorm:"serializer:json;not null" json:"address"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	DateAdded time.Time `gorm:"index:idx_members_date_added" json:"dateAdded"`
}
