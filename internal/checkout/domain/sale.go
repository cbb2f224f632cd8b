package domain

import (
	"time"
)

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentMTNMoMo     PaymentMethod = "mtn_momo"
	PaymentOrangeMoney PaymentMethod = "orange_money"
	PaymentInstallment PaymentMethod = "installment"
)

// ValidPaymentMethod reports whether m is one of the supported methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentMTNMoMo, PaymentOrangeMoney, PaymentInstallment:
		return true
	}
	return false
}

const (
	MinInstallments = 2
	MaxInstallments = 6
)

type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
)

// Sale is the immutable record of one completed checkout.
type Sale struct {
	ID                string        `json:"id"`
	VendorID          string        `json:"vendor_id"`
	CustomerName      string        `json:"customer_name"`
	Items             []SaleItem    `json:"items"`
	Subtotal          float64       `json:"subtotal"`
	Tax               float64       `json:"tax"`
	Amount            float64       `json:"amount"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	Installments      int           `json:"installments"`
	InstallmentAmount float64       `json:"installment_amount"`
	Status            SaleStatus    `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
}

type SaleItem struct {
	ID        string  `json:"id,omitempty"`
	SaleID    string  `json:"-"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// SaleInstallment is one scheduled payment of an installment-plan sale.
type SaleInstallment struct {
	ID      string            `json:"id"`
	SaleID  string            `json:"sale_id"`
	Seq     int               `json:"seq"`
	Amount  float64           `json:"amount"`
	DueDate time.Time         `json:"due_date"`
	Status  InstallmentStatus `json:"status"`
	PaidAt  *time.Time        `json:"paid_at,omitempty"`
}

type CheckoutRequest struct {
	CustomerName  string        `json:"customer_name"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Installments  int           `json:"installments"`
}
