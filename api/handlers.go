package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"fleet-tracking-system/cache"
	"fleet-tracking-system/config"
	"fleet-tracking-system/database"
	"fleet-tracking-system/dispatch"
	"fleet-tracking-system/models"
	"fleet-tracking-system/spatial"

	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

// CreateVehicle registers a new vehicle in the fleet
func CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	err := json.NewDecoder(r.Body).Decode(&vehicle)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	// A vehicle may register without a position and report one later.
	positioned := vehicle.Latitude != 0 || vehicle.Longitude != 0
	if positioned {
		if !spatial.InBounds(vehicle.Latitude, vehicle.Longitude) {
			http.Error(w, "Position outside the service area", http.StatusBadRequest)
			return
		}
		vehicle.Geohash = spatial.Cell(vehicle.Latitude, vehicle.Longitude)
	}

	if vehicle.Status == "" {
		vehicle.Status = models.VehicleAvailable
	}

	err = database.DB.QueryRow(
		`INSERT INTO vehicles (name, latitude, longitude, geohash, status) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		vehicle.Name, vehicle.Latitude, vehicle.Longitude, vehicle.Geohash, vehicle.Status,
	).Scan(&vehicle.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && strings.Contains(pgErr.Message, "duplicate key") {
			http.Error(w, "Vehicle already exists", http.StatusConflict)
		} else {
			http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		}
		return
	}

	if positioned && vehicle.Status == models.VehicleAvailable {
		spatial.Idx.Add(vehicle)
		cache.AddVehicle(context.Background(), vehicle)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

// GetVehicle fetches vehicle details by ID
func GetVehicle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vehicleID, err := strconv.ParseInt(vars["vehicle_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	err = database.DB.QueryRow(
		`SELECT id, name, latitude, longitude, geohash, status FROM vehicles WHERE id=$1`,
		vehicleID,
	).Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.Latitude,
		&vehicle.Longitude,
		&vehicle.Geohash,
		&vehicle.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

// UpdateVehicleLocation moves a vehicle to a new position
func UpdateVehicleLocation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vehicleID, err := strconv.ParseInt(vars["vehicle_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	var locationUpdate struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Status    string  `json:"status"` // Optional: "available" or "dispatched"
	}
	err = json.NewDecoder(r.Body).Decode(&locationUpdate)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if !spatial.InBounds(locationUpdate.Latitude, locationUpdate.Longitude) {
		http.Error(w, "Position outside the service area", http.StatusBadRequest)
		return
	}

	var current models.Vehicle
	err = database.DB.QueryRow(
		`SELECT id, name, latitude, longitude, geohash, status FROM vehicles WHERE id=$1`,
		vehicleID,
	).Scan(
		&current.ID,
		&current.Name,
		&current.Latitude,
		&current.Longitude,
		&current.Geohash,
		&current.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	status := locationUpdate.Status
	if status == "" {
		status = current.Status
	}
	updated := models.Vehicle{
		ID:        vehicleID,
		Name:      current.Name,
		Latitude:  locationUpdate.Latitude,
		Longitude: locationUpdate.Longitude,
		Geohash:   spatial.Cell(locationUpdate.Latitude, locationUpdate.Longitude),
		Status:    status,
	}

	_, err = database.DB.Exec(
		`UPDATE vehicles SET latitude=$1, longitude=$2, geohash=$3, status=$4 WHERE id=$5`,
		updated.Latitude, updated.Longitude, updated.Geohash, updated.Status, vehicleID,
	)
	if err != nil {
		http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
		return
	}

	ctx := context.Background()
	cache.RemoveVehicle(ctx, current)

	// Reindex: a vehicle that was never positioned has nothing to move.
	hadPosition := current.Latitude != 0 || current.Longitude != 0
	if updated.Status == models.VehicleAvailable {
		if hadPosition {
			spatial.Idx.Move(updated, current.Latitude, current.Longitude)
		} else {
			spatial.Idx.Add(updated)
		}
		cache.AddVehicle(ctx, updated)
	} else if hadPosition {
		spatial.Idx.Remove(vehicleID, current.Latitude, current.Longitude)
	}

	response := map[string]string{"message": "Vehicle location updated"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// VehicleStatusUpdate flips a vehicle between 'available' and 'dispatched'
func VehicleStatusUpdate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vehicleID, err := strconv.ParseInt(vars["vehicle_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	var statusUpdate struct {
		Status string `json:"status"` // "available", "dispatched"
	}
	err = json.NewDecoder(r.Body).Decode(&statusUpdate)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	_, err = database.DB.Exec(
		`UPDATE vehicles SET status=$1 WHERE id=$2`,
		statusUpdate.Status, vehicleID,
	)
	if err != nil {
		http.Error(w, "Failed to update vehicle status", http.StatusInternalServerError)
		return
	}

	var vehicle models.Vehicle
	err = database.DB.QueryRow(
		`SELECT id, name, latitude, longitude, geohash, status FROM vehicles WHERE id=$1`,
		vehicleID,
	).Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.Latitude,
		&vehicle.Longitude,
		&vehicle.Geohash,
		&vehicle.Status,
	)
	if err != nil {
		http.Error(w, "Failed to retrieve vehicle data", http.StatusInternalServerError)
		return
	}

	ctx := context.Background()
	positioned := vehicle.Latitude != 0 || vehicle.Longitude != 0
	if positioned {
		// Remove first so a repeated update never double-indexes.
		spatial.Idx.Remove(vehicle.ID, vehicle.Latitude, vehicle.Longitude)
	}
	if statusUpdate.Status == models.VehicleAvailable {
		if positioned {
			spatial.Idx.Add(vehicle)
		}
		cache.AddVehicle(ctx, vehicle)
	} else {
		cache.RemoveVehicle(ctx, vehicle)
	}

	response := map[string]string{"message": "Vehicle status updated"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RequestDispatch assigns the nearest available vehicle to a pickup
func RequestDispatch(w http.ResponseWriter, r *http.Request) {
	var dispatchRequest struct {
		PickupLat  float64 `json:"pickup_latitude"`
		PickupLon  float64 `json:"pickup_longitude"`
		DropoffLat float64 `json:"dropoff_latitude"`
		DropoffLon float64 `json:"dropoff_longitude"`
	}
	err := json.NewDecoder(r.Body).Decode(&dispatchRequest)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	vehicle, err := dispatch.FindNearestVehicle(dispatchRequest.PickupLat, dispatchRequest.PickupLon)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var dispatchID int64
	err = database.DB.QueryRow(
		`INSERT INTO dispatches (vehicle_id, pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude, status)
         VALUES ($1, $2, $3, $4, $5, 'requested') RETURNING id`,
		vehicle.ID, dispatchRequest.PickupLat, dispatchRequest.PickupLon, dispatchRequest.DropoffLat, dispatchRequest.DropoffLon,
	).Scan(&dispatchID)
	if err != nil {
		http.Error(w, "Failed to create dispatch", http.StatusInternalServerError)
		return
	}

	_, err = database.DB.Exec(`UPDATE vehicles SET status='dispatched' WHERE id=$1`, vehicle.ID)
	if err != nil {
		http.Error(w, "Failed to update vehicle status", http.StatusInternalServerError)
		return
	}

	// The vehicle is spoken for, take it out of the index and the cache.
	spatial.Idx.Remove(vehicle.ID, vehicle.Latitude, vehicle.Longitude)
	cache.RemoveVehicle(context.Background(), *vehicle)

	response := map[string]interface{}{
		"message":     "Vehicle assigned",
		"dispatch_id": dispatchID,
		"vehicle":     vehicle,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetDispatch fetches dispatch details by ID
func GetDispatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dispatchID, err := strconv.ParseInt(vars["dispatch_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid dispatch ID", http.StatusBadRequest)
		return
	}

	var d models.Dispatch
	err = database.DB.QueryRow(
		`SELECT id, vehicle_id, pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude, status FROM dispatches WHERE id=$1`,
		dispatchID,
	).Scan(
		&d.ID,
		&d.VehicleID,
		&d.PickupLat,
		&d.PickupLon,
		&d.DropoffLat,
		&d.DropoffLon,
		&d.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Dispatch not found", http.StatusNotFound)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}

// CompleteDispatch marks a dispatch as completed and frees its vehicle
func CompleteDispatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dispatchID, err := strconv.ParseInt(vars["dispatch_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid dispatch ID", http.StatusBadRequest)
		return
	}

	_, err = database.DB.Exec(
		`UPDATE dispatches SET status='completed' WHERE id=$1`,
		dispatchID,
	)
	if err != nil {
		http.Error(w, "Failed to update dispatch", http.StatusInternalServerError)
		return
	}

	var vehicleID int64
	err = database.DB.QueryRow(
		`SELECT vehicle_id FROM dispatches WHERE id=$1`,
		dispatchID,
	).Scan(&vehicleID)
	if err != nil {
		http.Error(w, "Failed to retrieve dispatch details", http.StatusInternalServerError)
		return
	}

	_, err = database.DB.Exec(
		`UPDATE vehicles SET status='available' WHERE id=$1`,
		vehicleID,
	)
	if err != nil {
		http.Error(w, "Failed to update vehicle status", http.StatusInternalServerError)
		return
	}

	var vehicle models.Vehicle
	err = database.DB.QueryRow(
		`SELECT id, name, latitude, longitude, geohash, status FROM vehicles WHERE id=$1`,
		vehicleID,
	).Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.Latitude,
		&vehicle.Longitude,
		&vehicle.Geohash,
		&vehicle.Status,
	)
	if err != nil {
		http.Error(w, "Failed to retrieve vehicle data", http.StatusInternalServerError)
		return
	}

	if vehicle.Latitude != 0 || vehicle.Longitude != 0 {
		spatial.Idx.Remove(vehicle.ID, vehicle.Latitude, vehicle.Longitude)
		spatial.Idx.Add(vehicle)
	}
	cache.AddVehicle(context.Background(), vehicle)

	response := map[string]string{"message": "Dispatch completed"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// finite rejects the NaN and Inf values strconv.ParseFloat accepts from
// query strings.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Viewport lists the vehicles inside a bounding box
func Viewport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minLat, err1 := strconv.ParseFloat(q.Get("min_lat"), 64)
	minLon, err2 := strconv.ParseFloat(q.Get("min_lon"), 64)
	maxLat, err3 := strconv.ParseFloat(q.Get("max_lat"), 64)
	maxLon, err4 := strconv.ParseFloat(q.Get("max_lon"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil ||
		!finite(minLat, minLon, maxLat, maxLon) {
		http.Error(w, "Invalid viewport coordinates", http.StatusBadRequest)
		return
	}

	vehicles := spatial.Idx.Viewport(minLat, minLon, maxLat, maxLon)
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	response := map[string]interface{}{
		"count":    len(vehicles),
		"vehicles": vehicles,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Nearby lists the vehicles within a radius of a point, closest first
func Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
	if err1 != nil || err2 != nil || !finite(lat, lon) {
		http.Error(w, "Invalid coordinates", http.StatusBadRequest)
		return
	}
	radiusKm := config.Cfg.Spatial.SearchRadiusKm
	if raw := q.Get("radius_km"); raw != "" {
		radiusKm, err1 = strconv.ParseFloat(raw, 64)
		if err1 != nil || radiusKm <= 0 || !finite(radiusKm) {
			http.Error(w, "Invalid radius", http.StatusBadRequest)
			return
		}
	}

	vehicles := spatial.Idx.Nearby(lat, lon, radiusKm)
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	response := map[string]interface{}{
		"count":    len(vehicles),
		"vehicles": vehicles,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Snapshot dumps every indexed vehicle
func Snapshot(w http.ResponseWriter, r *http.Request) {
	vehicles := spatial.Idx.Snapshot()
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	response := map[string]interface{}{
		"count":    len(vehicles),
		"vehicles": vehicles,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ClaimZone hands out every available vehicle around a point in one shot
func ClaimZone(w http.ResponseWriter, r *http.Request) {
	var claimRequest struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		RadiusKm  float64 `json:"radius_km"`
	}
	err := json.NewDecoder(r.Body).Decode(&claimRequest)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if claimRequest.RadiusKm <= 0 {
		http.Error(w, "Invalid radius", http.StatusBadRequest)
		return
	}

	claimed := dispatch.ClaimZone(claimRequest.Latitude, claimRequest.Longitude, claimRequest.RadiusKm)

	ctx := context.Background()
	for _, v := range claimed {
		_, err = database.DB.Exec(`UPDATE vehicles SET status='dispatched' WHERE id=$1`, v.ID)
		if err != nil {
			http.Error(w, "Failed to update vehicle status", http.StatusInternalServerError)
			return
		}
		cache.RemoveVehicle(ctx, v)
	}

	if claimed == nil {
		claimed = []models.Vehicle{}
	}
	response := map[string]interface{}{
		"count":    len(claimed),
		"vehicles": claimed,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Distance computes the great-circle distance between two coordinates
func Distance(w http.ResponseWriter, r *http.Request) {
	var distanceRequest struct {
		FromLat float64 `json:"from_latitude"`
		FromLon float64 `json:"from_longitude"`
		ToLat   float64 `json:"to_latitude"`
		ToLon   float64 `json:"to_longitude"`
	}
	err := json.NewDecoder(r.Body).Decode(&distanceRequest)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	km := spatial.DistanceKm(distanceRequest.FromLat, distanceRequest.FromLon,
		distanceRequest.ToLat, distanceRequest.ToLon)
	response := map[string]float64{"distance_km": km}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GeoIndex reports the active spatial technique and index size
func GeoIndex(w http.ResponseWriter, r *http.Request) {
	cfg := config.Cfg.Spatial
	response := map[string]interface{}{
		"technique": cfg.Technique,
		"count":     spatial.Idx.Len(),
		"bounds": map[string]float64{
			"min_lat": cfg.MinLat,
			"min_lon": cfg.MinLon,
			"max_lat": cfg.MaxLat,
			"max_lon": cfg.MaxLon,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
