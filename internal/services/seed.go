package services

import (
	"fmt"

	"toko-olahraga/internal/models"

	"github.com/shopspring/decimal"
)

const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "1234"
)

var seedCategories = []models.Category{
	{ID: 1, Name: "Sepatu", Description: "Berbagai macam sepatu olahraga"},
	{ID: 2, Name: "Pakaian", Description: "Jersey, kaos, dan lainnya"},
	{ID: 3, Name: "Perlengkapan", Description: "Bola, raket, dll"},
}

type seedProduct struct {
	name       string
	price      int64
	stock      int
	categoryID int
}

var seedProducts = []seedProduct{
	{"Sepatu Olahraga", 500000, 10, 1},
	{"Bola Basket", 300000, 5, 3},
	{"Jersey", 200000, 20, 2},
}

// Seed loads the start-of-run state: one admin account and the starter
// catalog, products listed in seed order.
func Seed(accounts *AccountService, catalog *CatalogService) error {
	if _, err := accounts.create(SeedAdminUsername, SeedAdminPassword, models.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	for _, c := range seedCategories {
		if _, err := catalog.AddCategory(c.ID, c.Name, c.Description); err != nil {
			return fmt.Errorf("seed category: %w", err)
		}
	}

	for _, p := range seedProducts {
		categoryID := p.categoryID
		_, err := catalog.insertProduct(models.NewProduct{
			Name:       p.name,
			Price:      decimal.NewFromInt(p.price),
			Stock:      p.stock,
			CategoryID: &categoryID,
		}, false)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.name, err)
		}
	}
	return nil
}
