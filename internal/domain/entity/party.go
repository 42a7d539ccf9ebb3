package entity

import "time"

// Vendor issues invoices. Name is unique and is the upsert key.
type Vendor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Customer receives invoices. Name is unique and is the upsert key.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Category classifies line items. Name is unique.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
