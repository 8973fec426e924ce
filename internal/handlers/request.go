package handlers

import (
	"strings"
	"sync"

	"salon-pos/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SaleItemRequest - One line of the sale form
type SaleItemRequest struct {
	Category    models.Category `json:"category" binding:"required,category"`
	ProductName string          `json:"product_name" binding:"required,max=200,nocomma"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	UnitPrice   int64           `json:"unit_price" binding:"min=0"`
	IsManager   bool            `json:"is_manager"`
}

// SaleRequest - What the front end sends to record or edit a sale.
// The total is always recomputed on the server.
type SaleRequest struct {
	Date          string               `json:"date" binding:"required,datetime=2006-01-02"`
	CustomerName  string               `json:"customer_name" binding:"required,max=100,nocomma"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required,payment"`
	Items         []SaleItemRequest    `json:"items" binding:"required,min=1,dive"`
}

func (r SaleRequest) toModel() models.Sale {
	sale := models.Sale{
		Date:          r.Date,
		CustomerName:  strings.TrimSpace(r.CustomerName),
		PaymentMethod: r.PaymentMethod,
		Items:         make([]models.SaleItem, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		sale.Items = append(sale.Items, models.SaleItem{
			Category:    it.Category,
			ProductName: strings.TrimSpace(it.ProductName),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			IsManager:   it.IsManager,
		})
	}
	sale.TotalAmount = models.SumItems(sale.Items)
	return sale
}

var registerOnce sync.Once

// RegisterValidators adds the sale-form rules to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// CSV export splits on commas, so free text may not contain one
		v.RegisterValidation("nocomma", func(fl validator.FieldLevel) bool {
			return !strings.ContainsAny(fl.Field().String(), ",，")
		})
		v.RegisterValidation("payment", func(fl validator.FieldLevel) bool {
			return models.PaymentMethod(fl.Field().String()).Valid()
		})
		v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return models.Category(fl.Field().String()).Valid()
		})
	})
}

// validationMessage turns validator errors into one readable line.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid input"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Namespace()+" failed on "+fe.Tag())
	}
	return strings.Join(msgs, "; ")
}
