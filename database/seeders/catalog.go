package seeders

import (
	"github.com/shashiranjanraj/fastfood-api/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog inserts the starter menus for both brands. Prices are
// integer FCFA amounts. Running twice is harmless: an already-populated
// catalog is left untouched.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	sn := models.CountryCodes{"SN"}
	products := []models.Product{
		// Planète Kebab
		{Name: "Kebab Classique", Description: "Kebab viande, salade, tomates, oignons", Price: 2500, Category: "Kebabs", Available: true, Brand: models.BrandPlaneteKebab, Countries: sn},
		{Name: "Kebab Complet", Description: "Kebab avec frites et sauce blanche", Price: 3000, Category: "Kebabs", Available: true, Brand: models.BrandPlaneteKebab, Countries: sn},
		{Name: "Tacos Poulet", Description: "Tacos au poulet, frites et sauce fromagere", Price: 2800, Category: "Tacos", Available: true, Brand: models.BrandPlaneteKebab, Countries: sn},
		{Name: "Assiette Kebab", Description: "Assiette complete avec viande, frites et salade", Price: 3500, Category: "Assiettes", Available: true, Brand: models.BrandPlaneteKebab, Countries: sn},
		{Name: "Coca-Cola", Description: "Canette 33cl", Price: 700, Category: "Boissons", Available: true, Brand: models.BrandPlaneteKebab, Countries: sn},

		// Mamapizza
		{Name: "Pizza Margherita", Description: "Tomate, mozzarella, basilic", Price: 3500, Category: "Pizzas", Available: true, Brand: models.BrandMamapizza, Countries: sn},
		{Name: "Pizza Reine", Description: "Tomate, mozzarella, jambon, champignons", Price: 4200, Category: "Pizzas", Available: true, Brand: models.BrandMamapizza, Countries: sn},
		{Name: "Pizza 4 Fromages", Description: "Mozzarella, chevre, bleu, emmental", Price: 4500, Category: "Pizzas", Available: true, Brand: models.BrandMamapizza, Countries: sn},
		{Name: "Pizza Calzone", Description: "Pizza soufflee tomate, jambon, oeuf", Price: 4300, Category: "Pizzas", Available: true, Brand: models.BrandMamapizza, Countries: sn},
		{Name: "Tiramisu", Description: "Dessert italien au cafe", Price: 2000, Category: "Desserts", Available: true, Brand: models.BrandMamapizza, Countries: sn},
		{Name: "Salade Cesar", Description: "Salade, poulet grille, parmesan, croutons", Price: 3000, Category: "Salades", Available: true, Brand: models.BrandMamapizza, Countries: sn},
		{Name: "Limonade", Description: "Bouteille 50cl", Price: 800, Category: "Boissons", Available: true, Brand: models.BrandMamapizza, Countries: sn},
	}

	return db.Create(&products).Error
}
