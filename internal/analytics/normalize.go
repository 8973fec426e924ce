package analytics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"salon-pos/internal/models"
)

// RawSale is a sale as it comes back from an external source (the spreadsheet
// backend or an old local export). Every field is loosely typed on purpose.
type RawSale struct {
	ID            any             `json:"id"`
	Date          any             `json:"date"`
	CustomerName  any             `json:"customerName"`
	Customer      any             `json:"customer"`
	PaymentMethod any             `json:"paymentMethod"`
	Items         json.RawMessage `json:"items"`
	Products      json.RawMessage `json:"products"`
	TotalAmount   any             `json:"totalAmount"`
	CreatedAt     any             `json:"createdAt"`
}

type RawItem struct {
	Category    any `json:"category"`
	ProductName any `json:"productName"`
	Quantity    any `json:"quantity"`
	UnitPrice   any `json:"unitPrice"`
	Subtotal    any `json:"subtotal"`
	IsManager   any `json:"isManager"`
}

// Normalize converts raw records into sales. Missing items become an empty
// list, non-numeric amounts become 0, and records with no ID or no readable
// date are dropped. The second return value is the number dropped.
func Normalize(raw []RawSale) ([]models.Sale, int) {
	out := make([]models.Sale, 0, len(raw))
	dropped := 0

	for _, r := range raw {
		id := asString(r.ID)
		date := normalizeDate(asString(r.Date))
		if id == "" || date == "" {
			dropped++
			continue
		}

		name := asString(r.CustomerName)
		if name == "" {
			name = asString(r.Customer)
		}

		items := decodeItems(r.Items)
		if len(items) == 0 {
			items = decodeItems(r.Products)
		}

		sale := models.Sale{
			ID:            id,
			Date:          date,
			CustomerName:  name,
			PaymentMethod: models.PaymentMethod(asString(r.PaymentMethod)),
			Items:         make([]models.SaleItem, 0, len(items)),
			TotalAmount:   asInt(r.TotalAmount),
		}
		if t, err := time.Parse(time.RFC3339, asString(r.CreatedAt)); err == nil {
			sale.CreatedAt = t
		}

		for i, it := range items {
			item := models.SaleItem{
				SaleID:      id,
				Position:    i,
				Category:    models.Category(asString(it.Category)),
				ProductName: asString(it.ProductName),
				Quantity:    int(asInt(it.Quantity)),
				UnitPrice:   asInt(it.UnitPrice),
				IsManager:   asBool(it.IsManager),
			}
			if it.Subtotal != nil {
				item.Subtotal = asInt(it.Subtotal)
			} else {
				item.Subtotal = int64(item.Quantity) * item.UnitPrice
			}
			sale.Items = append(sale.Items, item)
		}

		out = append(out, sale)
	}
	return out, dropped
}

// decodeItems accepts an array of items or a string holding one, which is how
// a spreadsheet cell round-trips it.
func decodeItems(msg json.RawMessage) []RawItem {
	if len(msg) == 0 {
		return nil
	}
	var items []RawItem
	if err := json.Unmarshal(msg, &items); err == nil {
		return items
	}
	var encoded string
	if err := json.Unmarshal(msg, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &items); err == nil {
			return items
		}
	}
	return nil
}

// normalizeDate accepts YYYY-MM-DD or a full timestamp and returns YYYY-MM-DD,
// or "" when nothing usable is there.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return FormatDate(t)
		}
		s = s[:len(DateLayout)]
	}
	t, err := ParseDate(s)
	if err != nil {
		return ""
	}
	return FormatDate(t)
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func asInt(v any) int64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
	// Out-of-range floats have no defined int64 conversion
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

func asBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(x))
		return b
	case float64:
		return x != 0
	default:
		return false
	}
}
