package database

import (
	"context"
	"errors"
	"fmt"

	"starwars-api/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.People{},
		&models.Planet{},
		&models.Favorite{},
	)
}

type SeedOptions struct {
	UserID       uint
	UserEmail    string
	UserPassword string
}

var seedPeople = []models.People{
	{Name: "Luke Skywalker", Height: "172", Mass: "77", HairColor: "blond", SkinColor: "fair", EyeColor: "blue", BirthYear: "19BBY", Gender: "male"},
	{Name: "C-3PO", Height: "167", Mass: "75", HairColor: "n/a", SkinColor: "gold", EyeColor: "yellow", BirthYear: "112BBY", Gender: "n/a"},
	{Name: "R2-D2", Height: "96", Mass: "32", HairColor: "n/a", SkinColor: "white, blue", EyeColor: "red", BirthYear: "33BBY", Gender: "n/a"},
	{Name: "Darth Vader", Height: "202", Mass: "136", HairColor: "none", SkinColor: "white", EyeColor: "yellow", BirthYear: "41.9BBY", Gender: "male"},
	{Name: "Leia Organa", Height: "150", Mass: "49", HairColor: "brown", SkinColor: "light", EyeColor: "brown", BirthYear: "19BBY", Gender: "female"},
}

var seedPlanets = []models.Planet{
	{Name: "Tatooine", Diameter: "10465", RotationPeriod: "23", OrbitalPeriod: "304", Gravity: "1 standard", Population: "200000", Climate: "arid", Terrain: "desert", SurfaceWater: "1"},
	{Name: "Alderaan", Diameter: "12500", RotationPeriod: "24", OrbitalPeriod: "364", Gravity: "1 standard", Population: "2000000000", Climate: "temperate", Terrain: "grasslands, mountains", SurfaceWater: "40"},
	{Name: "Yavin IV", Diameter: "10200", RotationPeriod: "24", OrbitalPeriod: "4818", Gravity: "1 standard", Population: "1000", Climate: "temperate, tropical", Terrain: "jungle, rainforests", SurfaceWater: "8"},
	{Name: "Hoth", Diameter: "7200", RotationPeriod: "23", OrbitalPeriod: "549", Gravity: "1.1 standard", Population: "unknown", Climate: "frozen", Terrain: "tundra, ice caves, mountain ranges", SurfaceWater: "100"},
	{Name: "Dagobah", Diameter: "8900", RotationPeriod: "23", OrbitalPeriod: "341", Gravity: "N/A", Population: "unknown", Climate: "murky", Terrain: "swamp, jungles", SurfaceWater: "8"},
}

// Seed inserts the fixed user and the reference people and planets. Rows
// already present (matched by email or name) are left untouched.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedUser(tx, opts); err != nil {
			return err
		}

		for _, p := range seedPeople {
			var existing models.People
			if err := tx.Where("name = ?", p.Name).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(&p).Error; err != nil {
					return fmt.Errorf("seed people %q: %w", p.Name, err)
				}
			} else if err != nil {
				return err
			}
		}

		for _, p := range seedPlanets {
			var existing models.Planet
			if err := tx.Where("name = ?", p.Name).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(&p).Error; err != nil {
					return fmt.Errorf("seed planet %q: %w", p.Name, err)
				}
			} else if err != nil {
				return err
			}
		}

		return nil
	})
}

func seedUser(tx *gorm.DB, opts SeedOptions) error {
	var existing models.User
	err := tx.Where("id = ? OR email = ?", opts.UserID, opts.UserEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.UserPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	user := models.User{
		ID:           opts.UserID,
		Email:        opts.UserEmail,
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	return nil
}
