package dispatch

import (
	"context"
	"encoding/json"
	"errors"

	"fleet-tracking-system/cache"
	"fleet-tracking-system/config"
	"fleet-tracking-system/models"
	"fleet-tracking-system/spatial"
)

// ErrNoVehicles is returned when no available vehicle can be found.
var ErrNoVehicles = errors.New("no available vehicles nearby")

// FindNearestVehicle locates the closest available vehicle to the pickup
// point. The spatial index is searched with a doubling radius up to the
// configured maximum; if that comes up empty the geohash sets in Redis
// serve as a fallback, they survive restarts while the index is warming up.
func FindNearestVehicle(lat, lon float64) (*models.Vehicle, error) {
	cfg := config.Cfg.Spatial
	radius := cfg.SearchRadiusKm
	if radius <= 0 {
		radius = 1 // a zero or negative start would never double past the max
	}
	for ; radius <= cfg.MaxRadiusKm; radius *= 2 {
		for _, v := range spatial.Idx.Nearby(lat, lon, radius) {
			if v.Status == models.VehicleAvailable {
				found := v
				return &found, nil
			}
		}
	}
	return findViaCache(lat, lon)
}

func findViaCache(lat, lon float64) (*models.Vehicle, error) {
	if cache.RedisClient == nil {
		return nil, ErrNoVehicles
	}

	hash := spatial.Cell(lat, lon)
	cells := append(spatial.NeighborCells(hash), hash)

	ctx := context.Background()
	for _, cell := range cells {
		members, err := cache.RedisClient.SMembers(ctx, cache.VehicleKey(cell)).Result()
		if err != nil {
			continue
		}
		for _, member := range members {
			var v models.Vehicle
			json.Unmarshal([]byte(member), &v)
			if v.Status == models.VehicleAvailable {
				return &v, nil
			}
		}
	}
	return nil, ErrNoVehicles
}

// ClaimZone removes every vehicle within radiusKm of the point from the
// index in one shot and marks them dispatched. Two concurrent claims never
// receive the same vehicle.
func ClaimZone(lat, lon, radiusKm float64) []models.Vehicle {
	claimed := spatial.Idx.Claim(lat, lon, radiusKm)
	for i := range claimed {
		claimed[i].Status = models.VehicleDispatched
	}
	return claimed
}
