package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedItem struct {
	name  string
	price int64
	unit  string
}

// Seed loads the initial catalog and demo accounts. Categories, items and
// users are upserted by their natural keys, so running it repeatedly is safe.
func Seed(db *gorm.DB) error {
	categories := []struct {
		name        string
		description string
		items       []seedItem
	}{
		{"Logam", "Barang-barang dari logam", []seedItem{
			{"Seng bekas", 600, "Kg"},
			{"Kaleng susu", 1000, "Kg"},
			{"Aluminium", 12000, "Kg"},
			{"Aki / batrai", 6000, "Kg"},
			{"Kara - kara", 800, "Kg"},
		}},
		{"Plastik", "Barang-barang dari plastik", []seedItem{
			{"Botol plastik kecil atau besar", 2600, "Kg"},
			{"Ember / baskom plastik", 800, "Kg"},
			{"Piring plastik", 10000, "Kg"},
			{"Gelas air plastik", 800, "Kg"},
			{"Duplex", 700, "Kg"},
			{"Aqua gelas", 300, "Kg"},
			{"Kemasan Ale-ale, teh rio, dll", 500, "Kg"},
		}},
		{"Kertas", "Barang-barang dari kertas", []seedItem{
			{"Buku", 600, "Kg"},
			{"Karton", 1000, "Kg"},
			{"Sarang telor", 50, "ppm"},
			{"Sampul", 700, "Kg"},
		}},
		{"Elektronik", "Barang-barang elektronik", []seedItem{
			{"Drum elektronik", 1000, "Kg"},
			{"TV Tabung atau TV LCD", 800, "Kg"},
			{"Magiccom", 800, "Kg"},
		}},
		{"Lainnya", "Barang-barang lainnya", []seedItem{
			{"Besi kropos", 2600, "Kg"},
			{"Kaleng minuman (sprite, fanta, dll)", 11000, "Kg"},
			{"Kap kreta, kap mobil dan sejenisnya", 800, "Kg"},
			{"Botol oli, Botol sampo, dll", 800, "Kg"},
			{"Botol kaca atau beling", 50, "Kg"},
			{"Galon air", 700, "Kg"},
			{"Aqua botol", 800, "Kg"},
			{"Sepam HP", 1200, "Kg"},
		}},
	}

	itemCount := 0
	for _, c := range categories {
		category := model.Category{Name: c.name, Description: c.description}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&category).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.name, err)
		}
		// OnConflict DoNothing leaves the generated ID empty on conflict
		if err := db.First(&category, "name = ?", c.name).Error; err != nil {
			return fmt.Errorf("failed to reload category %q: %w", c.name, err)
		}

		for _, it := range c.items {
			item := model.WasteItem{
				Name:       it.name,
				Price:      decimal.NewFromInt(it.price),
				Unit:       it.unit,
				CategoryID: category.ID,
				IsActive:   true,
			}
			var existing model.WasteItem
			err := db.First(&existing, "name = ? AND category_id = ?", it.name, category.ID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := db.Create(&item).Error; err != nil {
					return fmt.Errorf("failed to seed waste item %q: %w", it.name, err)
				}
				itemCount++
			case err != nil:
				return fmt.Errorf("failed to look up waste item %q: %w", it.name, err)
			default:
				// Refresh the price so re-seeding picks up catalog changes
				if err := db.Model(&existing).Updates(map[string]interface{}{
					"price": item.Price,
					"unit":  item.Unit,
				}).Error; err != nil {
					return fmt.Errorf("failed to refresh waste item %q: %w", it.name, err)
				}
			}
		}
	}

	if err := seedUser(db, "admin@banksampah.com", "admin123", "Admin Bank Sampah", model.RoleAdmin, "081234567890", "Kantor Bank Sampah"); err != nil {
		return err
	}
	if err := seedUser(db, "user@gmail.com", "password123", "User Demo", model.RoleUser, "081234567891", "Jl. Contoh No. 123, Jakarta"); err != nil {
		return err
	}

	log.Printf("Seed finished: %d categories, %d new waste items", len(categories), itemCount)
	return nil
}

func seedUser(db *gorm.DB, email, password, name, role, phone, address string) error {
	var existing model.User
	err := db.First(&existing, "email = ?", email).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up user %s: %w", email, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	user := model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Phone:    phone,
		Address:  address,
		Role:     role,
		Balance:  decimal.Zero,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	return nil
}
