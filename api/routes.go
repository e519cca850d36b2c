package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func RegisterRoutes() http.Handler {
	router := mux.NewRouter()

	// Fleet queries. Fixed paths go first so they never match {vehicle_id}.
	router.HandleFunc("/vehicles/viewport", Viewport).Methods("GET")
	router.HandleFunc("/vehicles/nearby", Nearby).Methods("GET")
	router.HandleFunc("/vehicles/snapshot", Snapshot).Methods("GET")

	// Vehicle endpoints
	router.HandleFunc("/vehicles", CreateVehicle).Methods("POST")
	router.HandleFunc("/vehicles/{vehicle_id}", GetVehicle).Methods("GET")
	router.HandleFunc("/vehicles/{vehicle_id}/status", VehicleStatusUpdate).Methods("PUT")
	router.HandleFunc("/vehicles/{vehicle_id}/location", UpdateVehicleLocation).Methods("PUT")

	// Dispatch endpoints
	router.HandleFunc("/dispatches", RequestDispatch).Methods("POST")
	router.HandleFunc("/dispatches/{dispatch_id}", GetDispatch).Methods("GET")
	router.HandleFunc("/dispatches/{dispatch_id}/complete", CompleteDispatch).Methods("PUT")

	// Zone claims
	router.HandleFunc("/zones/claim", ClaimZone).Methods("POST")

	// Distance endpoint
	router.HandleFunc("/distance", Distance).Methods("POST")

	// Index info
	router.HandleFunc("/geoindex", GeoIndex).Methods("GET")

	// Add CORS support
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	return cors(router)
}
