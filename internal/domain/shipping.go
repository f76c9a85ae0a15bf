package domain

import "time"

type ShippingAddress struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FullName      string    `json:"fullName"`
	Phone         string    `json:"phone,omitempty"`
	StreetAddress string    `json:"streetAddress"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postalCode"`
	IsDefault     bool      `json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
