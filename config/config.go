package config

import (
	"fmt"
	"os"

	"github.com/tanvir-hs/CourseDeck/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	// SSLCommerz store credentials
	SSLCommerzStoreID   string
	SSLCommerzStorePass string
	SSLCommerzSandbox   bool

	// Razorpay keys for the card payment path
	RazorpayKey    string
	RazorpaySecret string

	// Public base URL used to build gateway callback URLs
	BaseURL     string
	FrontendURL string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:              os.Getenv("DB_HOST"),
		DBPort:              os.Getenv("DB_PORT"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		Port:                os.Getenv("PORT"),
		Env:                 os.Getenv("ENV"),
		SSLCommerzStoreID:   os.Getenv("SSLCOMMERZ_STORE_ID"),
		SSLCommerzStorePass: os.Getenv("SSLCOMMERZ_STORE_PASSWD"),
		SSLCommerzSandbox:   os.Getenv("SSLCOMMERZ_SANDBOX") != "false",
		RazorpayKey:         os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:      os.Getenv("RAZORPAY_SECRET"),
		BaseURL:             os.Getenv("BASE_URL"),
		FrontendURL:         os.Getenv("FRONTEND_URL"),
	}

	return config, nil
}

// InitDB initializes the database connection
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	// Auto-migrate the schema
	err = DB.AutoMigrate(
		&models.User{},
		&models.UserOTP{},
		&models.Admin{},
		&models.Teacher{},
		&models.Course{},
		&models.Coupon{},
		&models.CouponCourse{},
		&models.CouponUsage{},
		&models.Enrollment{},
		&models.Payment{},
		&models.ManualPayment{},
		&models.Invoice{},
		&models.Certificate{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	// AutoMigrate cannot express an expression index; coupon codes must be
	// unique case-insensitively, and only among live rows.
	err = DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code_lower ON coupons (LOWER(code)) WHERE deleted_at IS NULL`).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to create coupon code index: %v", err))
	}
}
