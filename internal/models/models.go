package models

import (
	"time"
)

// User - Staff member who logs in to record sales
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff'
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// PaymentMethod is stored with the same labels the shop has always used,
// so records restored from the spreadsheet line up without translation.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "現金"
	PaymentBankTransfer PaymentMethod = "振込"
	PaymentCreditCard   PaymentMethod = "クレジットカード"
)

// PaymentMethods is the fixed display order of the payment matrix.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentBankTransfer, PaymentCreditCard}

func (p PaymentMethod) Valid() bool {
	for _, m := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

// Category of a line item
type Category string

const (
	CategorySubscription    Category = "サブスクリプション"
	CategoryMemberYomogi    Category = "会員 若よもぎ蒸し"
	CategoryNonMemberYomogi Category = "非会員 若よもぎ蒸し"
	CategoryTreatment       Category = "施術"
	CategoryBellman         Category = "ベルマン"
	CategoryCleansia        Category = "クレンシア"
	CategoryHydrogen        Category = "水素関連"
	CategoryOther           Category = "その他"
)

var Categories = []Category{
	CategorySubscription,
	CategoryMemberYomogi,
	CategoryNonMemberYomogi,
	CategoryTreatment,
	CategoryBellman,
	CategoryCleansia,
	CategoryHydrogen,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Sale - One checkout (customer visit). Replaced wholesale on edit.
type Sale struct {
	ID            string        `gorm:"primaryKey;size:64" json:"id"`
	Date          string        `gorm:"column:sale_date;size:10;index" json:"date"` // YYYY-MM-DD
	CustomerName  string        `gorm:"size:100;index" json:"customer_name"`
	PaymentMethod PaymentMethod `gorm:"size:32" json:"payment_method"`
	Items         []SaleItem    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   int64         `json:"total_amount"` // Always the sum of item subtotals
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// SaleItem - One line of a checkout
type SaleItem struct {
	ID          uint     `gorm:"primaryKey" json:"-"`
	SaleID      string   `gorm:"size:64;index" json:"-"`
	Position    int      `json:"-"` // Keeps the order the items were entered in
	Category    Category `gorm:"size:64" json:"category"`
	ProductName string   `gorm:"size:200" json:"product_name"`
	Quantity    int      `json:"quantity"`
	UnitPrice   int64    `json:"unit_price"`
	Subtotal    int64    `json:"subtotal"`
	IsManager   bool     `json:"is_manager"` // Handled by the shop manager
}

// SumItems recomputes every subtotal and returns the sale total.
func SumItems(items []SaleItem) int64 {
	var total int64
	for i := range items {
		items[i].Subtotal = int64(items[i].Quantity) * items[i].UnitPrice
		total += items[i].Subtotal
	}
	return total
}
