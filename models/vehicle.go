package models

// Vehicle statuses.
const (
	VehicleAvailable  = "available"
	VehicleDispatched = "dispatched"
)

type Vehicle struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Geohash   string  `json:"geohash"`
	Status    string  `json:"status"` // "available", "dispatched"
}

// X and Y expose the position as planar coordinates for spatial indexes:
// longitude on the x axis, latitude on the y axis.
func (v Vehicle) X() float64 { return v.Longitude }

func (v Vehicle) Y() float64 { return v.Latitude }
