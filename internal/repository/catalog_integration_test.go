package repository

import (
	"github.com/emregurs3s/karakus-tech-website/internal/domain"
)

func (s *IntegrationTestSuite) seedCategory(slug string) int64 {
	id, err := s.CategoryRepo.Create(s.Ctx, &domain.Category{
		Name:     "Tişört",
		Slug:     slug,
		IsActive: true,
	})
	s.Require().NoError(err)
	return id
}

func (s *IntegrationTestSuite) seedProduct(categoryID int64, slug string, price int64) int64 {
	id, err := s.ProductRepo.Create(s.Ctx, &domain.Product{
		Title:      "Oversize Tee",
		Slug:       slug,
		Price:      price,
		CategoryID: categoryID,
		Colors:     []string{"Black", "White"},
		Sizes:      []string{"M", "L"},
		Stock:      10,
		IsActive:   true,
	})
	s.Require().NoError(err)
	return id
}

func (s *IntegrationTestSuite) TestProduct_CreateAndGetBySlug() {
	catID := s.seedCategory("tisort")
	s.seedProduct(catID, "oversize-tee", 45000)

	product, err := s.ProductRepo.GetBySlug(s.Ctx, "oversize-tee")
	s.Require().NoError(err)

	s.Equal("Oversize Tee", product.Title)
	s.Equal(int64(45000), product.Price)
	s.Equal([]string{"Black", "White"}, product.Colors)
	s.True(product.IsActive)
}

func (s *IntegrationTestSuite) TestProduct_GetMissing() {
	_, err := s.ProductRepo.GetBySlug(s.Ctx, "no-such-product")
	s.Require().ErrorIs(err, ErrProductNotFound)
}

func (s *IntegrationTestSuite) TestProduct_ListFiltersInactive() {
	catID := s.seedCategory("tisort")
	s.seedProduct(catID, "active-tee", 45000)

	inactiveID := s.seedProduct(catID, "retired-tee", 30000)
	inactive := false
	s.Require().NoError(s.ProductRepo.Update(s.Ctx, inactiveID, &domain.UpdateProductInput{IsActive: &inactive}))

	products, total, err := s.ProductRepo.List(s.Ctx, domain.ProductFilters{Page: 1, Limit: 10}, true)
	s.Require().NoError(err)

	s.Equal(int64(1), total)
	s.Require().Len(products, 1)
	s.Equal("active-tee", products[0].Slug)

	// Admin view still sees both.
	_, total, err = s.ProductRepo.List(s.Ctx, domain.ProductFilters{Page: 1, Limit: 10}, false)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
}

func (s *IntegrationTestSuite) TestProduct_ListByCategoryAndSearch() {
	teesID := s.seedCategory("tisort")
	pantsID := s.seedCategory("pantolon")
	s.seedProduct(teesID, "oversize-tee", 45000)
	s.seedProduct(pantsID, "cargo-pants", 60000)

	products, total, err := s.ProductRepo.List(s.Ctx, domain.ProductFilters{
		CategorySlug: "tisort",
		Page:         1,
		Limit:        10,
	}, true)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("oversize-tee", products[0].Slug)

	products, total, err = s.ProductRepo.List(s.Ctx, domain.ProductFilters{
		Search: "cargo",
		Page:   1,
		Limit:  10,
	}, true)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("cargo-pants", products[0].Slug)
}

func (s *IntegrationTestSuite) TestProduct_SortByPrice() {
	catID := s.seedCategory("tisort")
	s.seedProduct(catID, "cheap-tee", 20000)
	s.seedProduct(catID, "pricey-tee", 80000)

	products, _, err := s.ProductRepo.List(s.Ctx, domain.ProductFilters{
		SortBy:    "price",
		SortOrder: "asc",
		Page:      1,
		Limit:     10,
	}, true)
	s.Require().NoError(err)
	s.Require().Len(products, 2)
	s.Equal("cheap-tee", products[0].Slug)
	s.Equal("pricey-tee", products[1].Slug)
}

func (s *IntegrationTestSuite) TestProduct_SetStock() {
	catID := s.seedCategory("tisort")
	id := s.seedProduct(catID, "oversize-tee", 45000)

	s.Require().NoError(s.ProductRepo.SetStock(s.Ctx, id, 3))

	product, err := s.ProductRepo.GetByID(s.Ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(3), product.Stock)

	s.Require().ErrorIs(s.ProductRepo.SetStock(s.Ctx, 999999, 1), ErrProductNotFound)

	s.Require().NoError(s.ProductRepo.DeleteByID(s.Ctx, id))
	s.Require().ErrorIs(s.ProductRepo.SetStock(s.Ctx, id, 1), ErrProductNotFound)
}

func (s *IntegrationTestSuite) TestProduct_SoftDelete() {
	catID := s.seedCategory("tisort")
	id := s.seedProduct(catID, "oversize-tee", 45000)

	s.Require().NoError(s.ProductRepo.DeleteByID(s.Ctx, id))

	// Gone from the storefront and the admin listing alike.
	_, total, err := s.ProductRepo.List(s.Ctx, domain.ProductFilters{Page: 1, Limit: 10}, true)
	s.Require().NoError(err)
	s.Equal(int64(0), total)

	_, err = s.ProductRepo.GetByID(s.Ctx, id)
	s.Require().ErrorIs(err, ErrProductNotFound)

	// The row itself survives for order history.
	var deleted int64
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx,
		"SELECT COUNT(*) FROM products WHERE id = $1 AND deleted_at IS NOT NULL", id).Scan(&deleted))
	s.Equal(int64(1), deleted)

	// Deleting twice reports not found.
	s.Require().ErrorIs(s.ProductRepo.DeleteByID(s.Ctx, id), ErrProductNotFound)
}

func (s *IntegrationTestSuite) TestCategory_ListOrdering() {
	_, err := s.CategoryRepo.Create(s.Ctx, &domain.Category{Name: "B", Slug: "b", IsActive: true, Ordering: 2})
	s.Require().NoError(err)
	_, err = s.CategoryRepo.Create(s.Ctx, &domain.Category{Name: "A", Slug: "a", IsActive: true, Ordering: 1})
	s.Require().NoError(err)

	categories, err := s.CategoryRepo.List(s.Ctx, true)
	s.Require().NoError(err)
	s.Require().Len(categories, 2)
	s.Equal("a", categories[0].Slug)
	s.Equal("b", categories[1].Slug)
}
