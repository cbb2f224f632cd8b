package domain

import "time"

// VendorProfile is the editable business identity shown on the settings
// screen, one row per vendor.
type VendorProfile struct {
	VendorID       string    `json:"vendor_id" db:"vendor_id"`
	BusinessName   string    `json:"business_name" db:"business_name"`
	Email          string    `json:"email" db:"email"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	Address        *string   `json:"address,omitempty" db:"address"`
	BusinessType   *string   `json:"business_type,omitempty" db:"business_type"`
	Description    *string   `json:"description,omitempty" db:"description"`
	LogoURL        *string   `json:"logo_url,omitempty" db:"logo_url"`
	OrderAlerts    bool      `json:"order_alerts" db:"order_alerts"`
	LowStockAlerts bool      `json:"low_stock_alerts" db:"low_stock_alerts"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateProfileRequest struct {
	BusinessName   string  `json:"business_name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	BusinessType   *string `json:"business_type"`
	Description    *string `json:"description"`
	OrderAlerts    bool    `json:"order_alerts"`
	LowStockAlerts bool    `json:"low_stock_alerts"`
}

// PaymentMethodPref is one accepted payment channel, e.g. an MTN MoMo
// number or a bank account.
type PaymentMethodPref struct {
	ID        string    `json:"id" db:"id"`
	VendorID  string    `json:"vendor_id" db:"vendor_id"`
	Type      string    `json:"type" db:"type"`
	Details   string    `json:"details" db:"details"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type AddPaymentMethodRequest struct {
	Type    string `json:"type" binding:"required"`
	Details string `json:"details" binding:"required"`
}
