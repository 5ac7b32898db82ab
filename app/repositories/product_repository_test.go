package repositories_test

import (
	"fmt"
	"testing"

	"github.com/shashiranjanraj/fastfood-api/app/models"
	"github.com/shashiranjanraj/fastfood-api/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testRepo(t *testing.T) *repositories.ProductRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return repositories.NewProductRepository(db)
}

func boolPtr(b bool) *bool { return &b }

func seed(t *testing.T, repo *repositories.ProductRepository, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		brand := models.BrandPlaneteKebab
		category := "kebab"
		if i%2 == 0 {
			brand = models.BrandMamapizza
			category = "Pizza"
		}
		p := models.Product{
			Name:      fmt.Sprintf("Item %02d", i),
			Price:     int64(1000 * i),
			Category:  category,
			Available: i%3 != 0,
			Brand:     brand,
			Countries: models.CountryCodes{"SN"},
		}
		require.NoError(t, repo.Create(&p))
	}
}

func TestListPagination(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo, 25)

	page2, total, err := repo.List(repositories.ProductFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, page2, 10)

	// Sorted by name, so page 2 starts at Item 11.
	assert.Equal(t, "Item 11", page2[0].Name)
	assert.Equal(t, "Item 20", page2[9].Name)

	page3, _, err := repo.List(repositories.ProductFilter{}, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page3, 5)

	empty, _, err := repo.List(repositories.ProductFilter{}, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListFilterByBrand(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo, 10)

	products, total, err := repo.List(repositories.ProductFilter{Brand: models.BrandMamapizza}, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	for _, p := range products {
		assert.Equal(t, models.BrandMamapizza, p.Brand)
	}
}

func TestListFilterByCategorySubstring(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo, 10)

	// Case-insensitive substring: "izz" matches "Pizza".
	products, total, err := repo.List(repositories.ProductFilter{Category: "izz"}, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	for _, p := range products {
		assert.Equal(t, "Pizza", p.Category)
	}
}

func TestListFilterByAvailability(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo, 9)

	unavailable, total, err := repo.List(repositories.ProductFilter{Available: boolPtr(false)}, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total) // items 3, 6, 9
	for _, p := range unavailable {
		assert.False(t, p.Available)
	}
}

func TestListCombinedFilters(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo, 12)

	products, _, err := repo.List(repositories.ProductFilter{
		Brand:     models.BrandPlaneteKebab,
		Available: boolPtr(true),
	}, 1, 100)
	require.NoError(t, err)
	for _, p := range products {
		assert.Equal(t, models.BrandPlaneteKebab, p.Brand)
		assert.True(t, p.Available)
	}
}

func TestGetByID(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo, 1)

	p, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Item 01", p.Name)

	_, err = repo.GetByID(999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo, 2)

	require.NoError(t, repo.Delete(1))
	_, err := repo.GetByID(1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(1), repositories.ErrNotFound)
}

func TestCountriesRoundTrip(t *testing.T) {
	repo := testRepo(t)

	p := models.Product{
		Name:      "Yassa",
		Price:     3000,
		Category:  "plat",
		Available: true,
		Brand:     models.BrandPlaneteKebab,
		Countries: models.CountryCodes{"SN", "CI", "ML"},
	}
	require.NoError(t, repo.Create(&p))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CountryCodes{"SN", "CI", "ML"}, got.Countries)
}
