package spatial

import (
	"sync"

	"fleet-tracking-system/models"
	"fleet-tracking-system/quadtree"
)

// QuadtreeIndex backs the vehicle index with a point quadtree. The tree is
// not synchronized itself, a single RWMutex guards all access.
type QuadtreeIndex struct {
	mu   sync.RWMutex
	tree *quadtree.Tree[models.Vehicle]
}

func NewQuadtreeIndex(bounds quadtree.Rect, capacity, maxDepth int) *QuadtreeIndex {
	return &QuadtreeIndex{
		tree: quadtree.NewWithDepth[models.Vehicle](bounds, capacity, maxDepth),
	}
}

func (q *QuadtreeIndex) Add(v models.Vehicle) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tree.Insert(v)
}

func (q *QuadtreeIndex) Load(vehicles []models.Vehicle) (int, []models.Vehicle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tree.InsertMany(vehicles)
}

func (q *QuadtreeIndex) Remove(id int64, lat, lon float64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	removed := q.tree.DeleteFunc(quadtree.At(lon, lat), func(v models.Vehicle) bool {
		return v.ID == id
	})
	return removed > 0
}

func (q *QuadtreeIndex) Move(v models.Vehicle, oldLat, oldLon float64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tree.DeleteFunc(quadtree.At(oldLon, oldLat), func(old models.Vehicle) bool {
		return old.ID == v.ID
	})
	return q.tree.Insert(v)
}

func (q *QuadtreeIndex) Nearby(lat, lon, radiusKm float64) []models.Vehicle {
	q.mu.RLock()
	defer q.mu.RUnlock()
	zone := quadtree.NewCircle(lon, lat, coverRadiusDeg(lat, radiusKm))
	found := q.tree.QueryFunc(zone, func(v models.Vehicle) bool {
		return DistanceKm(lat, lon, v.Latitude, v.Longitude) <= radiusKm
	})
	sortByDistance(found, lat, lon)
	return found
}

func (q *QuadtreeIndex) Viewport(minLat, minLon, maxLat, maxLon float64) []models.Vehicle {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.tree.Query(quadtree.NewRect(minLon, minLat, maxLon, maxLat))
}

func (q *QuadtreeIndex) Claim(lat, lon, radiusKm float64) []models.Vehicle {
	q.mu.Lock()
	defer q.mu.Unlock()
	zone := quadtree.NewCircle(lon, lat, coverRadiusDeg(lat, radiusKm))
	claimed := q.tree.PopFunc(zone, func(v models.Vehicle) bool {
		return DistanceKm(lat, lon, v.Latitude, v.Longitude) <= radiusKm
	})
	sortByDistance(claimed, lat, lon)
	return claimed
}

func (q *QuadtreeIndex) Snapshot() []models.Vehicle {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.tree.Query(q.tree.Bounds())
}

func (q *QuadtreeIndex) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.tree.Len()
}
