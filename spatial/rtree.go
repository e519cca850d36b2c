package spatial

import (
	"fmt"
	"sync"

	"fleet-tracking-system/models"
	"fleet-tracking-system/quadtree"

	"github.com/dhconnelly/rtreego"
)

// pointTol is the half-width of the box that stands in for a point,
// rtreego stores rectangles only.
const pointTol = 0.0001

// spatialVehicle adapts a vehicle to the rtreego.Spatial interface.
type spatialVehicle struct {
	vehicle models.Vehicle
}

func (s spatialVehicle) Bounds() rtreego.Rect {
	return rtreego.Point{s.vehicle.Longitude, s.vehicle.Latitude}.ToRect(pointTol)
}

// RTreeIndex backs the vehicle index with an R-tree. rtreego does not
// constrain coordinates, so the configured bounds are enforced here and
// every technique rejects the same positions.
type RTreeIndex struct {
	mu     sync.Mutex
	tree   *rtreego.Rtree
	bounds quadtree.Rect
}

func NewRTreeIndex(bounds quadtree.Rect) *RTreeIndex {
	return &RTreeIndex{
		tree:   rtreego.NewTree(2, 25, 50),
		bounds: bounds,
	}
}

func (r *RTreeIndex) Add(v models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(v)
}

func (r *RTreeIndex) add(v models.Vehicle) error {
	if !r.bounds.Contains(v.Longitude, v.Latitude) {
		return fmt.Errorf("%w: (%v, %v)", quadtree.ErrOutOfBounds, v.Longitude, v.Latitude)
	}
	r.tree.Insert(spatialVehicle{v})
	return nil
}

func (r *RTreeIndex) Load(vehicles []models.Vehicle) (int, []models.Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	var rejected []models.Vehicle
	for _, v := range vehicles {
		if err := r.add(v); err != nil {
			rejected = append(rejected, v)
			continue
		}
		inserted++
	}
	return inserted, rejected
}

func (r *RTreeIndex) Remove(id int64, lat, lon float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(id, lat, lon)
}

// remove deletes by identity: the probe carries the stored position so the
// R-tree can find the leaf, the comparator then matches on the vehicle id.
func (r *RTreeIndex) remove(id int64, lat, lon float64) bool {
	probe := spatialVehicle{models.Vehicle{ID: id, Latitude: lat, Longitude: lon}}
	return r.tree.DeleteWithComparator(probe, func(obj1, obj2 rtreego.Spatial) bool {
		a, ok1 := obj1.(spatialVehicle)
		b, ok2 := obj2.(spatialVehicle)
		return ok1 && ok2 && a.vehicle.ID == b.vehicle.ID
	})
}

func (r *RTreeIndex) Move(v models.Vehicle, oldLat, oldLon float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(v.ID, oldLat, oldLon)
	return r.add(v)
}

func (r *RTreeIndex) Nearby(lat, lon, radiusKm float64) []models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	bb := rtreego.Point{lon, lat}.ToRect(coverRadiusDeg(lat, radiusKm))
	var found []models.Vehicle
	for _, obj := range r.tree.SearchIntersect(bb) {
		v := obj.(spatialVehicle).vehicle
		if DistanceKm(lat, lon, v.Latitude, v.Longitude) <= radiusKm {
			found = append(found, v)
		}
	}
	sortByDistance(found, lat, lon)
	return found
}

func (r *RTreeIndex) Viewport(minLat, minLon, maxLat, maxLon float64) []models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	window := quadtree.NewRect(minLon, minLat, maxLon, maxLat)
	bb, err := rtreego.NewRect(rtreego.Point{minLon, minLat},
		[]float64{maxLon - minLon, maxLat - minLat})
	if err != nil {
		return nil // empty or inverted viewport
	}
	var found []models.Vehicle
	for _, obj := range r.tree.SearchIntersect(bb) {
		v := obj.(spatialVehicle).vehicle
		if window.Contains(v.Longitude, v.Latitude) {
			found = append(found, v)
		}
	}
	return found
}

func (r *RTreeIndex) Claim(lat, lon, radiusKm float64) []models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	bb := rtreego.Point{lon, lat}.ToRect(coverRadiusDeg(lat, radiusKm))
	var claimed []models.Vehicle
	for _, obj := range r.tree.SearchIntersect(bb) {
		v := obj.(spatialVehicle).vehicle
		if DistanceKm(lat, lon, v.Latitude, v.Longitude) <= radiusKm {
			claimed = append(claimed, v)
		}
	}
	for _, v := range claimed {
		r.remove(v.ID, v.Latitude, v.Longitude)
	}
	sortByDistance(claimed, lat, lon)
	return claimed
}

func (r *RTreeIndex) Snapshot() []models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	bb, err := rtreego.NewRect(rtreego.Point{r.bounds.MinX, r.bounds.MinY},
		[]float64{r.bounds.Width(), r.bounds.Height()})
	if err != nil {
		return nil
	}
	out := make([]models.Vehicle, 0, r.tree.Size())
	for _, obj := range r.tree.SearchIntersect(bb) {
		out = append(out, obj.(spatialVehicle).vehicle)
	}
	return out
}

func (r *RTreeIndex) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree.Size()
}
