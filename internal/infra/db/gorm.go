package db

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bluecascade/tilestore/internal/domain/model"
)

// Connect opens the database and returns a *gorm.DB.
func Connect() (*gorm.DB, error) {
	// DATABASE_URL takes priority when set
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	host := getenv("POSTGRES_HOST", "localhost")
	port := getenv("POSTGRES_PORT", "5432")
	user := getenv("POSTGRES_USER", "postgres")
	pass := getenv("POSTGRES_PASSWORD", "postgres")
	name := getenv("POSTGRES_DB", "tilestore")
	ssl := getenv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate creates or updates the three tables.
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.Tile{},
		&model.Admin{},
		&model.AuditLog{},
	)
}

// SeedDefaultAdmin inserts the bootstrap admin when the table is empty.
// Safe to call on every start.
func SeedDefaultAdmin(gormDB *gorm.DB, username, password string) error {
	var count int64
	if err := gormDB.Model(&model.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	admin := model.Admin{
		Username:     username,
		PasswordHash: string(hash),
	}
	return gormDB.Create(&admin).Error
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
