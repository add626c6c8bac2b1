// Package opencart implements source.Reader against a live OpenCart MySQL
// schema. All access is raw read-only SQL; the legacy tables are never
// mapped to GORM models and never written to.
package opencart

import (
	"context"
	"fmt"
	"time"

	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/cartbridge/backend/internal/domain/source"
	"github.com/cartbridge/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// defaultLanguageID selects the localized description rows. OpenCart ships
// with English as language 1 and the legacy stores we mirror kept that.
const defaultLanguageID = 1

// Reader reads the legacy catalog over a dedicated MySQL connection.
type Reader struct {
	db         *gorm.DB
	languageID int
}

// Open connects to the source database described by cfg and returns a
// Reader over it. A missing or unreachable server surfaces as
// shared.ErrSourceUnavailable so callers can report it as an operator
// problem rather than an internal fault.
func Open(cfg *config.SourceDBConfig) (*Reader, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}

	return NewReader(db), nil
}

// NewReader wraps an existing connection, mainly for tests.
func NewReader(db *gorm.DB) *Reader {
	return &Reader{db: db, languageID: defaultLanguageID}
}

// Close releases the source connection pool.
func (r *Reader) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the source database is reachable.
func (r *Reader) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	return nil
}

// ProductIDAtRank returns the nth distinct product id declaring options.
func (r *Reader) ProductIDAtRank(ctx context.Context, rank int) (int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT product_id FROM oc_product_option ORDER BY product_id LIMIT 1 OFFSET ?`,
		rank,
	).Scan(&ids).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	if len(ids) == 0 {
		return 0, shared.ErrNotFound
	}
	return ids[0], nil
}

// CountProductsWithOptions returns how many distinct products declare at
// least one option.
func (r *Reader) CountProductsWithOptions(ctx context.Context) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(DISTINCT product_id) FROM oc_product_option`,
	).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	return count, nil
}

type productRow struct {
	ProductID        int64
	Model            string
	Price            decimal.Decimal
	Image            string
	ManufacturerID   int64
	ManufacturerName string
	Description      string
	MetaDescription  string
}

// ProductByID loads the product's base fields, localized description,
// manufacturer name and category names.
func (r *Reader) ProductByID(ctx context.Context, id int64) (*source.Product, error) {
	var rows []productRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT p.product_id, p.model, p.price, p.image, p.manufacturer_id,
		        COALESCE(m.name, '') AS manufacturer_name,
		        pd.description, pd.meta_description
		 FROM oc_product p
		 JOIN oc_product_description pd
		   ON pd.product_id = p.product_id AND pd.language_id = ?
		 LEFT JOIN oc_manufacturer m
		   ON m.manufacturer_id = p.manufacturer_id
		 WHERE p.product_id = ?`,
		r.languageID, id,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}

	categories, err := r.categoriesByProductID(ctx, id)
	if err != nil {
		return nil, err
	}

	row := rows[0]
	return &source.Product{
		ID:               row.ProductID,
		Model:            row.Model,
		Price:            row.Price,
		Image:            row.Image,
		ManufacturerID:   row.ManufacturerID,
		ManufacturerName: row.ManufacturerName,
		Description:      row.Description,
		MetaDescription:  row.MetaDescription,
		Categories:       categories,
	}, nil
}

func (r *Reader) categoriesByProductID(ctx context.Context, id int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Raw(
		`SELECT cd.name
		 FROM oc_product_to_category ptc
		 JOIN oc_category_description cd
		   ON cd.category_id = ptc.category_id AND cd.language_id = ?
		 WHERE ptc.product_id = ?
		 ORDER BY ptc.category_id`,
		r.languageID, id,
	).Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	return names, nil
}

type optionRow struct {
	ProductOptionID int64
	Name            string
}

type valueRow struct {
	Name        string
	Price       decimal.Decimal
	PricePrefix string
}

// OptionsByProductID returns the product's options with their values. Row
// order follows the source tables; downstream combination generation
// depends on it staying that way.
func (r *Reader) OptionsByProductID(ctx context.Context, id int64) ([]source.Option, error) {
	var optRows []optionRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT po.product_option_id, od.name
		 FROM oc_product_option po
		 JOIN oc_option_description od
		   ON od.option_id = po.option_id AND od.language_id = ?
		 WHERE po.product_id = ?
		 ORDER BY po.product_option_id`,
		r.languageID, id,
	).Scan(&optRows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}

	options := make([]source.Option, 0, len(optRows))
	for _, opt := range optRows {
		values, err := r.valuesByProductOptionID(ctx, opt.ProductOptionID)
		if err != nil {
			return nil, err
		}
		options = append(options, source.Option{
			ProductOptionID: opt.ProductOptionID,
			Name:            opt.Name,
			Values:          values,
		})
	}
	return options, nil
}

func (r *Reader) valuesByProductOptionID(ctx context.Context, productOptionID int64) ([]source.OptionValue, error) {
	var rows []valueRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT ovd.name, pov.price, pov.price_prefix
		 FROM oc_product_option_value pov
		 JOIN oc_option_value_description ovd
		   ON ovd.option_value_id = pov.option_value_id AND ovd.language_id = ?
		 WHERE pov.product_option_id = ?
		 ORDER BY pov.product_option_value_id`,
		r.languageID, productOptionID,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}

	values := make([]source.OptionValue, 0, len(rows))
	for _, row := range rows {
		delta := row.Price
		// OpenCart stores the surcharge magnitude and a separate '+'/'-'
		// prefix; fold the prefix into the sign here so nothing downstream
		// has to know about it.
		if row.PricePrefix == "-" {
			delta = delta.Neg()
		}
		values = append(values, source.OptionValue{
			Name:       row.Name,
			PriceDelta: delta,
		})
	}
	return values, nil
}
