package domain

import "time"

// Supplier is one upstream business a vendor restocks from.
type Supplier struct {
	ID            string    `json:"id"`
	VendorID      string    `json:"vendor_id"`
	Name          string    `json:"name"`
	BusinessType  string    `json:"business_type"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type SaveSupplierRequest struct {
	Name          string  `json:"name" binding:"required"`
	BusinessType  string  `json:"business_type" binding:"required"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// ListFilter narrows a supplier listing. Query matches name or business
// type; Verified of nil means both verified and unverified.
type ListFilter struct {
	Query    string
	Verified *bool
}
