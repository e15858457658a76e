package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	config "github.com/jptandoc/turo_backend/configs"
	"github.com/jptandoc/turo_backend/models"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Tutor{},
		&models.Student{},
		&models.Principal{},
		&models.Admin{},
		&models.Superadmin{},
		&models.Schedule{},
		&models.Transaction{},
		&models.TutorWithdrawal{},
		&models.PayoutReport{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedSuperadmin creates the bootstrap superadmin account if it is missing.
func SeedSuperadmin() {
	adminEmail := config.Config("SUPERADMIN_EMAIL")
	adminPassword := config.Config("SUPERADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for superadmin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Superadmin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash superadmin password: %v", err)
		return
	}

	adminUser := models.User{
		FullName: config.Config("SUPERADMIN_FULL_NAME"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "superadmin",
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&adminUser).Error; err != nil {
			return err
		}
		return tx.Create(&models.Superadmin{UserID: adminUser.ID}).Error
	})
	if err != nil {
		log.Fatalf("🔥 Failed to seed superadmin user: %v", err)
		return
	}

	log.Println("✅ Superadmin user seeded successfully")
}
