package models

type Dispatch struct {
	ID         int64   `json:"id"`
	VehicleID  int64   `json:"vehicle_id"`
	PickupLat  float64 `json:"pickup_latitude"`
	PickupLon  float64 `json:"pickup_longitude"`
	DropoffLat float64 `json:"dropoff_latitude"`
	DropoffLon float64 `json:"dropoff_longitude"`
	Status     string  `json:"status"` // "requested", "assigned", "completed"
}
