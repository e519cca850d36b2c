package spatial

import (
	"fmt"
	"math"
	"sync"

	"fleet-tracking-system/config"
	"fleet-tracking-system/models"
	"fleet-tracking-system/quadtree"

	"github.com/mmcloughlin/geohash"
)

// Cell returns the geohash cell for a coordinate at the configured precision.
func Cell(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, config.Cfg.Spatial.GeohashPrecision)
}

// NeighborCells returns the geohash cells surrounding the given one.
func NeighborCells(hash string) []string {
	return geohash.Neighbors(hash)
}

// GeohashIndex buckets vehicles by geohash cell. Queries walk the cells
// overlapping the search window and filter exactly, so results match the
// other techniques.
type GeohashIndex struct {
	mu        sync.Mutex
	precision uint
	bounds    quadtree.Rect
	cells     map[string][]models.Vehicle
	count     int
}

func NewGeohashIndex(bounds quadtree.Rect, precision uint) *GeohashIndex {
	return &GeohashIndex{
		precision: precision,
		bounds:    bounds,
		cells:     make(map[string][]models.Vehicle),
	}
}

func (g *GeohashIndex) cellOf(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, g.precision)
}

func (g *GeohashIndex) Add(v models.Vehicle) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(v)
}

func (g *GeohashIndex) add(v models.Vehicle) error {
	if !g.bounds.Contains(v.Longitude, v.Latitude) {
		return fmt.Errorf("%w: (%v, %v)", quadtree.ErrOutOfBounds, v.Longitude, v.Latitude)
	}
	hash := g.cellOf(v.Latitude, v.Longitude)
	g.cells[hash] = append(g.cells[hash], v)
	g.count++
	return nil
}

func (g *GeohashIndex) Load(vehicles []models.Vehicle) (int, []models.Vehicle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	inserted := 0
	var rejected []models.Vehicle
	for _, v := range vehicles {
		if err := g.add(v); err != nil {
			rejected = append(rejected, v)
			continue
		}
		inserted++
	}
	return inserted, rejected
}

func (g *GeohashIndex) Remove(id int64, lat, lon float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remove(id, lat, lon)
}

func (g *GeohashIndex) remove(id int64, lat, lon float64) bool {
	hash := g.cellOf(lat, lon)
	cell := g.cells[hash]
	for i, v := range cell {
		if v.ID == id {
			cell = append(cell[:i], cell[i+1:]...)
			if len(cell) == 0 {
				delete(g.cells, hash)
			} else {
				g.cells[hash] = cell
			}
			g.count--
			return true
		}
	}
	return false
}

func (g *GeohashIndex) Move(v models.Vehicle, oldLat, oldLon float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remove(v.ID, oldLat, oldLon)
	return g.add(v)
}

// coverCells returns the cells overlapping the window by stepping across it
// at the cell size of the configured precision. For windows wider than the
// occupied area it returns the occupied cells instead, callers filter
// exactly either way.
func (g *GeohashIndex) coverCells(minLat, minLon, maxLat, maxLon float64) []string {
	// Vehicles only exist inside the configured bounds, so the probe window
	// can be clamped to them. That also keeps the lattice on coordinates the
	// geohash encoding is defined for.
	minLat = math.Max(minLat, g.bounds.MinY)
	minLon = math.Max(minLon, g.bounds.MinX)
	maxLat = math.Min(maxLat, g.bounds.MaxY)
	maxLon = math.Min(maxLon, g.bounds.MaxX)

	// NaN survives the clamps above and would keep the lattice walk below
	// from ever reaching its end condition; an Inf edge means the clamped
	// window is empty. Either way there is nothing to cover.
	for _, edge := range []float64{minLat, minLon, maxLat, maxLon} {
		if math.IsNaN(edge) || math.IsInf(edge, 0) {
			return nil
		}
	}

	box := geohash.BoundingBox(g.cellOf(minLat, minLon))
	latStep := box.MaxLat - box.MinLat
	lonStep := box.MaxLng - box.MinLng

	rows := (maxLat-minLat)/latStep + 2
	cols := (maxLon-minLon)/lonStep + 2
	if rows*cols > float64(len(g.cells)) {
		cells := make([]string, 0, len(g.cells))
		for hash := range g.cells {
			cells = append(cells, hash)
		}
		return cells
	}

	seen := make(map[string]bool)
	var cells []string
	for lat := minLat; ; lat += latStep {
		for lon := minLon; ; lon += lonStep {
			hash := g.cellOf(lat, lon)
			if !seen[hash] {
				seen[hash] = true
				cells = append(cells, hash)
			}
			if lon >= maxLon {
				break
			}
		}
		if lat >= maxLat {
			break
		}
	}
	return cells
}

func (g *GeohashIndex) Nearby(lat, lon, radiusKm float64) []models.Vehicle {
	g.mu.Lock()
	defer g.mu.Unlock()
	deg := coverRadiusDeg(lat, radiusKm)
	var found []models.Vehicle
	for _, hash := range g.coverCells(lat-deg, lon-deg, lat+deg, lon+deg) {
		for _, v := range g.cells[hash] {
			if DistanceKm(lat, lon, v.Latitude, v.Longitude) <= radiusKm {
				found = append(found, v)
			}
		}
	}
	sortByDistance(found, lat, lon)
	return found
}

func (g *GeohashIndex) Viewport(minLat, minLon, maxLat, maxLon float64) []models.Vehicle {
	g.mu.Lock()
	defer g.mu.Unlock()
	window := quadtree.NewRect(minLon, minLat, maxLon, maxLat)
	var found []models.Vehicle
	for _, hash := range g.coverCells(minLat, minLon, maxLat, maxLon) {
		for _, v := range g.cells[hash] {
			if window.Contains(v.Longitude, v.Latitude) {
				found = append(found, v)
			}
		}
	}
	return found
}

func (g *GeohashIndex) Claim(lat, lon, radiusKm float64) []models.Vehicle {
	g.mu.Lock()
	defer g.mu.Unlock()
	deg := coverRadiusDeg(lat, radiusKm)
	var claimed []models.Vehicle
	for _, hash := range g.coverCells(lat-deg, lon-deg, lat+deg, lon+deg) {
		cell := g.cells[hash]
		if len(cell) == 0 {
			continue
		}
		kept := cell[:0]
		for _, v := range cell {
			if DistanceKm(lat, lon, v.Latitude, v.Longitude) <= radiusKm {
				claimed = append(claimed, v)
				continue
			}
			kept = append(kept, v)
		}
		if len(kept) == 0 {
			delete(g.cells, hash)
		} else {
			g.cells[hash] = kept
		}
	}
	g.count -= len(claimed)
	sortByDistance(claimed, lat, lon)
	return claimed
}

func (g *GeohashIndex) Snapshot() []models.Vehicle {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.Vehicle, 0, g.count)
	for _, cell := range g.cells {
		out = append(out, cell...)
	}
	return out
}

func (g *GeohashIndex) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}
