package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-reservation-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotel_reservations")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// ConnectDatabase opens the MySQL connection, runs migrations and seeds the
// base inventory. The handle is returned rather than stored in a package
// global so the store can be injected and swapped out in tests.
func ConnectDatabase() (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Client{},
		&models.Room{},
		&models.Reservation{},
	); err != nil {
		return nil, err
	}

	SeedDatabase(db)
	return db, nil
}

// SeedDatabase inserts a starter inventory on an empty database. Seeding is
// idempotent: it only runs when the corresponding table has no rows.
func SeedDatabase(db *gorm.DB) {
	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{RoomNumber: "101", Type: models.RoomTypeSingle, Capacity: 1, NightlyRate: 120.00, Description: "Single room, ground floor"},
			{RoomNumber: "102", Type: models.RoomTypeSingle, Capacity: 1, NightlyRate: 120.00, Description: "Single room, ground floor"},
			{RoomNumber: "201", Type: models.RoomTypeTwinSingle, Capacity: 2, NightlyRate: 180.00, Description: "Two single beds"},
			{RoomNumber: "202", Type: models.RoomTypeDouble, Capacity: 2, NightlyRate: 200.00, Description: "Double bed, street view"},
			{RoomNumber: "301", Type: models.RoomTypeSuite, Capacity: 2, NightlyRate: 350.00, Description: "Suite with living area"},
			{RoomNumber: "302", Type: models.RoomTypeDeluxe, Capacity: 2, NightlyRate: 500.00, Description: "Deluxe suite, top floor"},
		}
		if err := db.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Rooms seeded")
		}
	}

	var clientCount int64
	db.Model(&models.Client{}).Count(&clientCount)
	if clientCount == 0 {
		clients := []models.Client{
			{Name: "João Silva", NationalID: "12345678901", Email: "joao@email.com", Phone: "11987654321", PostalCode: "01310100", Street: "Avenida Paulista", Number: "1000", District: "Bela Vista", City: "São Paulo", State: "SP"},
			{Name: "Maria Santos", NationalID: "98765432109", Email: "maria@email.com", Phone: "11876543210", PostalCode: "01310100", Street: "Avenida Paulista", Number: "2000", District: "Bela Vista", City: "São Paulo", State: "SP"},
			{Name: "Pedro Oliveira", NationalID: "45678912345", Email: "pedro@email.com", Phone: "11765432109", PostalCode: "01310200", Street: "Rua Augusta", Number: "100", District: "Consolação", City: "São Paulo", State: "SP"},
		}
		if err := db.Create(&clients).Error; err != nil {
			log.Printf("warning: failed to seed clients: %v", err)
		} else {
			log.Println("Clients seeded")
		}
	}
}
