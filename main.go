package main

import (
	"log"
	"net/http"
	"os"

	"fleet-tracking-system/api"
	"fleet-tracking-system/cache"
	"fleet-tracking-system/config"
	"fleet-tracking-system/database"
	"fleet-tracking-system/models"
	"fleet-tracking-system/spatial"

	"github.com/gorilla/handlers"
)

func main() {
	// Initialize configuration
	config.InitConfig()

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal(err)
	}

	// Initialize Redis
	if err := cache.InitRedis(); err != nil {
		log.Fatal(err)
	}

	// Build the spatial index and warm it from the database
	if err := spatial.InitIndex(); err != nil {
		log.Fatal(err)
	}
	vehicles, err := database.LoadAvailableVehicles()
	if err != nil {
		log.Fatal(err)
	}
	fleet := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Latitude != 0 || v.Longitude != 0 {
			fleet = append(fleet, v)
		}
	}
	loaded, rejected := spatial.Idx.Load(fleet)
	if len(rejected) > 0 {
		log.Printf("Skipped %d vehicles outside the service area.", len(rejected))
	}
	log.Printf("Indexed %d vehicles.", loaded)

	// Register routes
	router := api.RegisterRoutes()

	// Start the server
	addr := ":" + config.Cfg.Server.Port
	log.Printf("Server started on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handlers.LoggingHandler(os.Stdout, router)))
}
