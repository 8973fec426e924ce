package database

import (
	"errors"
	"fmt"
	"time"

	"salon-pos/internal/analytics"
	"salon-pos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSaleNotFound = errors.New("sale not found")

const importBatchSize = 200

// withItems preloads line items in the order they were entered.
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	})
}

// ListSales returns every sale, newest business date first.
func ListSales() ([]models.Sale, error) {
	var sales []models.Sale
	err := withItems(DB).Order("sale_date desc, created_at desc").Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// LoadSalesInRange returns the sales dated inside rng. Open bounds are not filtered.
func LoadSalesInRange(rng analytics.DateRange) ([]models.Sale, error) {
	q := withItems(DB)
	if !rng.Start.IsZero() {
		q = q.Where("sale_date >= ?", analytics.FormatDate(rng.Start))
	}
	if !rng.End.IsZero() {
		q = q.Where("sale_date <= ?", analytics.FormatDate(rng.End))
	}

	var sales []models.Sale
	if err := q.Order("sale_date asc, created_at asc").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("load sales %s..%s: %w",
			analytics.FormatDate(rng.Start), analytics.FormatDate(rng.End), err)
	}
	return sales, nil
}

func GetSale(id string) (*models.Sale, error) {
	var sale models.Sale
	err := withItems(DB).Where("id = ?", id).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sale %s: %w", id, err)
	}
	return &sale, nil
}

// CreateSale stores a new sale. It assigns the ID, item positions and total.
func CreateSale(sale *models.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	prepareItems(sale)
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}

	if err := DB.Create(sale).Error; err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// UpdateSale replaces the sale with the given ID. ID and CreatedAt are kept;
// the line items are replaced wholesale.
func UpdateSale(id string, sale *models.Sale) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// 1. Load the current record
		var existing models.Sale
		err := tx.Where("id = ?", id).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaleNotFound
		}
		if err != nil {
			return fmt.Errorf("update sale %s: %w", id, err)
		}

		sale.ID = existing.ID
		sale.CreatedAt = existing.CreatedAt
		prepareItems(sale)

		// 2. Drop the old items
		if err := tx.Where("sale_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
			return fmt.Errorf("update sale %s: delete items: %w", id, err)
		}

		// 3. Save the header, then the new items
		if err := tx.Omit("Items").Save(sale).Error; err != nil {
			return fmt.Errorf("update sale %s: %w", id, err)
		}
		if len(sale.Items) > 0 {
			if err := tx.Create(&sale.Items).Error; err != nil {
				return fmt.Errorf("update sale %s: create items: %w", id, err)
			}
		}
		return nil
	})
}

func DeleteSale(id string) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
			return fmt.Errorf("delete sale %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Sale{})
		if res.Error != nil {
			return fmt.Errorf("delete sale %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSaleNotFound
		}
		return nil
	})
}

// DeleteAllSales removes every sale and returns how many there were.
func DeleteAllSales() (int64, error) {
	var n int64
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("1 = 1").Delete(&models.Sale{})
		n = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("delete all sales: %w", err)
	}
	return n, nil
}

// ReplaceAllSales swaps the whole store for sales in one transaction.
// When an ID repeats, the first record wins.
func ReplaceAllSales(sales []models.Sale) (int, error) {
	seen := make(map[string]struct{}, len(sales))
	unique := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		s.Items = append([]models.SaleItem(nil), s.Items...)
		for i := range s.Items {
			s.Items[i].ID = 0
			s.Items[i].SaleID = s.ID
			s.Items[i].Position = i
		}
		unique = append(unique, s)
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.Sale{}).Error; err != nil {
			return err
		}
		if len(unique) == 0 {
			return nil
		}
		return tx.CreateInBatches(unique, importBatchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("replace sales: %w", err)
	}
	return len(unique), nil
}

func CountSales() (int64, error) {
	var n int64
	if err := DB.Model(&models.Sale{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

func prepareItems(sale *models.Sale) {
	for i := range sale.Items {
		sale.Items[i].ID = 0
		sale.Items[i].SaleID = sale.ID
		sale.Items[i].Position = i
	}
	sale.TotalAmount = models.SumItems(sale.Items)
}
