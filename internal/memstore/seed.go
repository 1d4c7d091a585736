package memstore

import "github.com/01moynul/storefront-golang/internal/models"

// SeedDemo fills an empty store with a small catalog for local runs.
func (s *Store) SeedDemo() {
	clothing := s.AddCategory("Clothing", nil)
	shoes := s.AddCategory("Shoes", &clothing.ID)
	s.AddCategory("Sneakers", &shoes.ID)
	electronics := s.AddCategory("Electronics", nil)

	s.AddProduct(models.Product{CategoryID: clothing.ID, Title: "Linen Shirt", Description: "Light summer shirt", Quantity: 25, UnitPrice: 3500, Size: "M", Color: "White"})
	s.AddProduct(models.Product{CategoryID: shoes.ID, Title: "Leather Boots", Description: "Waterproof boots", Quantity: 10, UnitPrice: 12000, Size: "42", Color: "Brown"})
	s.AddProduct(models.Product{CategoryID: electronics.ID, Title: "USB-C Charger", Description: "65W wall charger", Quantity: 50, UnitPrice: 2900, Size: "One size", Color: "Black"})
}
