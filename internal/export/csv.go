package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"salon-pos/internal/models"
)

// utf8BOM makes Excel open the file as UTF-8 instead of Shift_JIS.
const utf8BOM = "\uFEFF"

var lineHeader = []string{"日付", "お客様名", "カテゴリー", "商品名", "個数", "単価", "小計", "合計金額", "決済方法"}

// WriteCSV writes one row per line item. The sale total and payment method
// only appear on the first item row of each sale.
func WriteCSV(w io.Writer, sales []models.Sale) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(lineHeader); err != nil {
		return err
	}
	for _, s := range sales {
		for i, it := range s.Items {
			total, method := "", ""
			if i == 0 {
				total = strconv.FormatInt(s.TotalAmount, 10)
				method = string(s.PaymentMethod)
			}
			row := []string{
				s.Date,
				s.CustomerName,
				string(it.Category),
				it.ProductName,
				strconv.Itoa(it.Quantity),
				strconv.FormatInt(it.UnitPrice, 10),
				strconv.FormatInt(it.Subtotal, 10),
				total,
				method,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName builds the download name, e.g. sales_export_2024-06-01.csv.
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("sales_export_%s.%s", now.Format("2006-01-02"), ext)
}
