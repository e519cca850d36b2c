package database

import (
	"database/sql"
	"fmt"
	"log"

	"fleet-tracking-system/config"
	"fleet-tracking-system/models"

	_ "github.com/lib/pq"
)

var DB *sql.DB

func InitDB() error {
	cfg := config.Cfg.DB
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}
	if err = db.Ping(); err != nil {
		return err
	}
	DB = db
	log.Println("Database connected.")
	return nil
}

// LoadAvailableVehicles fetches every available vehicle, used to warm the
// in-memory spatial index on startup.
func LoadAvailableVehicles() ([]models.Vehicle, error) {
	rows, err := DB.Query(
		`SELECT id, name, latitude, longitude, geohash, status FROM vehicles WHERE status='available'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.Latitude, &v.Longitude, &v.Geohash, &v.Status); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
