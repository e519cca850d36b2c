package spatial

import (
	"fmt"
	"log"

	"fleet-tracking-system/config"
	"fleet-tracking-system/models"
	"fleet-tracking-system/quadtree"
)

// Technique selects the data structure backing the vehicle index.
type Technique string

const (
	TechniqueQuadtree Technique = "quadtree"
	TechniqueRTree    Technique = "rtree"
	TechniqueGeohash  Technique = "geohash"
)

// Index is the shared surface of the spatial backends. Coordinates are in
// degrees, longitude on the x axis and latitude on the y axis. Every
// implementation is safe for concurrent use, and all of them agree on
// results: queries filter by great-circle distance and the viewport treats
// its max edges as exclusive.
type Index interface {
	// Add indexes a vehicle at its current position. Positions outside the
	// configured bounds are rejected with quadtree.ErrOutOfBounds.
	Add(v models.Vehicle) error
	// Load bulk-indexes a fleet. It returns how many vehicles were accepted
	// and the ones whose positions fell outside the bounds.
	Load(vehicles []models.Vehicle) (int, []models.Vehicle)
	// Remove drops the vehicle with the given id indexed at (lat, lon).
	Remove(id int64, lat, lon float64) bool
	// Move atomically reindexes a vehicle from its old position to the one
	// recorded in v. If the new position is out of bounds the vehicle
	// leaves the index and the error reports why.
	Move(v models.Vehicle, oldLat, oldLon float64) error
	// Nearby returns vehicles within radiusKm of the coordinate, closest
	// first.
	Nearby(lat, lon, radiusKm float64) []models.Vehicle
	// Viewport returns vehicles inside the rectangle, min edges inclusive,
	// max edges exclusive.
	Viewport(minLat, minLon, maxLat, maxLon float64) []models.Vehicle
	// Claim removes and returns every vehicle within radiusKm, closest
	// first. Concurrent claims never hand out the same vehicle twice.
	Claim(lat, lon, radiusKm float64) []models.Vehicle
	// Snapshot returns every indexed vehicle.
	Snapshot() []models.Vehicle
	// Len reports how many vehicles are indexed.
	Len() int
}

// Idx is the active vehicle index, set by InitIndex.
var Idx Index

// InBounds reports whether a coordinate lies inside the configured service
// area, max edges exclusive.
func InBounds(lat, lon float64) bool {
	cfg := config.Cfg.Spatial
	return quadtree.NewRect(cfg.MinLon, cfg.MinLat, cfg.MaxLon, cfg.MaxLat).Contains(lon, lat)
}

// InitIndex builds the index named by the spatial config section.
func InitIndex() error {
	cfg := config.Cfg.Spatial
	bounds := quadtree.NewRect(cfg.MinLon, cfg.MinLat, cfg.MaxLon, cfg.MaxLat)
	switch Technique(cfg.Technique) {
	case TechniqueQuadtree:
		Idx = NewQuadtreeIndex(bounds, cfg.Capacity, cfg.MaxDepth)
	case TechniqueRTree:
		Idx = NewRTreeIndex(bounds)
	case TechniqueGeohash:
		Idx = NewGeohashIndex(bounds, cfg.GeohashPrecision)
	default:
		return fmt.Errorf("unsupported spatial technique %q", cfg.Technique)
	}
	log.Printf("Spatial index ready (technique=%s).", cfg.Technique)
	return nil
}
