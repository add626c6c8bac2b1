package persistence

import (
	"context"
	"testing"

	"github.com/cartbridge/backend/internal/domain/catalog"
	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&catalog.Category{},
		&ProductCategory{},
		&catalog.Attribute{},
		&catalog.AttributeTerm{},
		&catalog.ProductAttribute{},
		&catalog.ProductAttributeTerm{},
		&catalog.Variation{},
		&catalog.VariationValue{},
	))
	return db
}

func newProduct(t *testing.T, externalID int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(externalID, "Test product", decimal.NewFromInt(10))
	require.NoError(t, err)
	return p
}

func TestProductRepositoryFindByExternalID(t *testing.T) {
	db := testDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	_, err := repo.FindByExternalID(ctx, 42)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	p := newProduct(t, 42)
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByExternalID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.True(t, found.RegularPrice.Equal(decimal.NewFromInt(10)))
}

func TestProductRepositorySaveUpdates(t *testing.T) {
	db := testDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := newProduct(t, 42)
	require.NoError(t, repo.Save(ctx, p))

	p.SyncDetails("description", "short")
	p.MarkVariable()
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByExternalID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "description", found.Description)
	assert.Equal(t, catalog.ProductTypeVariable, found.ProductType)

	var count int64
	require.NoError(t, db.Model(&catalog.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProductRepositoryReplaceCategories(t *testing.T) {
	db := testDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := newProduct(t, 42)
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, repo.ReplaceCategories(ctx, p.ID, []string{"Guitars", "Electric"}))
	require.NoError(t, repo.ReplaceCategories(ctx, p.ID, []string{"Guitars", "Acoustic"}))

	var cats int64
	require.NoError(t, db.Model(&catalog.Category{}).Count(&cats).Error)
	assert.Equal(t, int64(3), cats, "categories are created once and kept")

	var rows []ProductCategory
	require.NoError(t, db.Where("product_id = ?", p.ID).Find(&rows).Error)
	assert.Len(t, rows, 2, "assignments are replaced, not accumulated")
}

func TestAttributeRepositoryEnsureIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewGormAttributeRepository(db)
	ctx := context.Background()

	first, err := repo.EnsureAttribute(ctx, "size", "Size")
	require.NoError(t, err)
	second, err := repo.EnsureAttribute(ctx, "size", "Size")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, catalog.AttributeTypeSelect, first.AttributeType)

	termA, err := repo.EnsureTerm(ctx, first.ID, "L")
	require.NoError(t, err)
	termB, err := repo.EnsureTerm(ctx, first.ID, "L")
	require.NoError(t, err)
	assert.Equal(t, termA.ID, termB.ID)

	var terms int64
	require.NoError(t, db.Model(&catalog.AttributeTerm{}).Count(&terms).Error)
	assert.Equal(t, int64(1), terms)
}

func TestAttributeRepositoryAssignTermIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewGormAttributeRepository(db)
	ctx := context.Background()

	p := newProduct(t, 42)
	require.NoError(t, db.Create(p).Error)
	attr, err := repo.EnsureAttribute(ctx, "size", "Size")
	require.NoError(t, err)
	term, err := repo.EnsureTerm(ctx, attr.ID, "L")
	require.NoError(t, err)

	require.NoError(t, repo.AssignTermToProduct(ctx, p.ID, attr.ID, term.ID))
	require.NoError(t, repo.AssignTermToProduct(ctx, p.ID, attr.ID, term.ID))

	var rows int64
	require.NoError(t, db.Model(&catalog.ProductAttributeTerm{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestAttributeRepositoryReplaceProductAttributes(t *testing.T) {
	db := testDB(t)
	repo := NewGormAttributeRepository(db)
	ctx := context.Background()

	p := newProduct(t, 42)
	require.NoError(t, db.Create(p).Error)
	size, err := repo.EnsureAttribute(ctx, "size", "Size")
	require.NoError(t, err)
	color, err := repo.EnsureAttribute(ctx, "color", "Color")
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceProductAttributes(ctx, p.ID, []catalog.ProductAttribute{
		{ProductID: p.ID, AttributeID: size.ID, Position: 0, Visible: true, UsedForVariation: true},
	}))
	require.NoError(t, repo.ReplaceProductAttributes(ctx, p.ID, []catalog.ProductAttribute{
		{ProductID: p.ID, AttributeID: size.ID, Position: 0, Visible: true, UsedForVariation: true},
		{ProductID: p.ID, AttributeID: color.ID, Position: 1, Visible: true, UsedForVariation: true},
	}))

	var rows []catalog.ProductAttribute
	require.NoError(t, db.Where("product_id = ?", p.ID).Order("position").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, size.ID, rows[0].AttributeID)
	assert.Equal(t, color.ID, rows[1].AttributeID)
}

func TestVariationRepositoryLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewGormVariationRepository(db)
	ctx := context.Background()

	p := newProduct(t, 42)
	require.NoError(t, db.Create(p).Error)

	for i, value := range []string{"S", "M", "L"} {
		v, err := catalog.NewVariation(p.ID, catalog.Selection{
			Slugs:  []string{"size"},
			Values: []string{value},
		}, decimal.NewFromInt(int64(10+i)), i)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, v))
	}

	count, err := repo.CountByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	found, err := repo.FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "S", found[0].Values[0].Value)
	assert.Equal(t, "L", found[2].Values[0].Value)

	require.NoError(t, repo.DeleteByProduct(ctx, p.ID))
	count, err = repo.CountByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	var values int64
	require.NoError(t, db.Model(&catalog.VariationValue{}).Count(&values).Error)
	assert.Zero(t, values, "values deleted with their variations")
}

func TestVariationRepositoryRejectsDuplicateSelection(t *testing.T) {
	db := testDB(t)
	repo := NewGormVariationRepository(db)
	ctx := context.Background()

	p := newProduct(t, 42)
	require.NoError(t, db.Create(p).Error)

	sel := catalog.Selection{Slugs: []string{"size"}, Values: []string{"M"}}
	first, err := catalog.NewVariation(p.ID, sel, decimal.NewFromInt(10), 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	dup, err := catalog.NewVariation(p.ID, sel, decimal.NewFromInt(12), 1)
	require.NoError(t, err)
	assert.Error(t, repo.Create(ctx, dup), "identical assignment on one product is rejected")
}
