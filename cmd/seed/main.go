package main

import (
	"log"
	"os"

	"ai-support-chatbot-be/internal/model"
	"ai-support-chatbot-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Catalog...")

	items := []datatypes.JSONMap{
		{
			"Product ID":     "EN-1001",
			"Product Name":   "iPhone 15",
			"Category":       "Phones",
			"Brand":          "Apple",
			"Model":          "A3090",
			"Description":    "6.1-inch smartphone with USB-C and 48MP camera",
			"Specifications": "128GB storage, 6GB RAM, A16 Bionic",
			"Price":          "999",
			"Stock":          "42",
			"Warranty":       "1 year manufacturer warranty",
		},
		{
			"Product ID":     "EN-1002",
			"Product Name":   "Samsung 55-inch QLED TV",
			"Category":       "Electrical Appliances",
			"Brand":          "Samsung",
			"Model":          "QN55Q80C",
			"Description":    "4K QLED smart TV with quantum HDR",
			"Specifications": "55 inch, 120Hz, HDMI 2.1 x4",
			"Price":          "1199",
			"Stock":          "3",
			"Warranty":       "1 year manufacturer warranty",
		},
		{
			"Product ID":   "EN-1003",
			"Product Name": "Electric Kettle",
			"Category":     "Electrical Appliances",
			"Brand":        "Philips",
			"Price":        "25",
			"Stock":        "120",
		},
	}

	for _, fields := range items {
		productId, _ := fields["Product ID"].(string)

		var count int64
		db.Model(&model.CatalogItem{}).
			Where("fields->>'Product ID' = ?", productId).
			Count(&count)
		if count > 0 {
			log.Printf("Catalog item '%s' already exists, skipping...", productId)
			continue
		}

		item := model.CatalogItem{Fields: fields}
		if err := db.Create(&item).Error; err != nil {
			log.Fatalf("Error: Failed to seed item '%s': %v", productId, err)
		}
		log.Printf("Seeded catalog item '%s'", productId)
	}

	log.Println("Seeding completed.")
}
