package spatial

import (
	"math"
	"sort"

	"fleet-tracking-system/models"

	"github.com/golang/geo/s2"
)

const (
	earthRadiusKm = 6371.01
	kmPerDegree   = earthRadiusKm * math.Pi / 180
)

// DistanceKm returns the great-circle distance between two coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Radians() * earthRadiusKm
}

// coverRadiusDeg converts a km radius at the given latitude into a degree
// radius large enough to cover the whole disk. A longitude degree shrinks
// with latitude, so away from the equator the longitude span dominates.
// The slack covers the cosine drift across tall disks; callers filter by
// exact distance afterwards. Sized for metro-scale radii: a disk spanning
// hundreds of km at polar latitudes can outgrow the fixed slack.
func coverRadiusDeg(lat, radiusKm float64) float64 {
	latSpan := radiusKm / kmPerDegree
	cos := math.Cos(lat * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01 // near the poles every longitude is nearby
	}
	lonSpan := radiusKm / (kmPerDegree * cos)
	return 1.01 * math.Max(latSpan, lonSpan)
}

func sortByDistance(vehicles []models.Vehicle, lat, lon float64) {
	sort.Slice(vehicles, func(i, j int) bool {
		return DistanceKm(lat, lon, vehicles[i].Latitude, vehicles[i].Longitude) <
			DistanceKm(lat, lon, vehicles[j].Latitude, vehicles[j].Longitude)
	})
}
