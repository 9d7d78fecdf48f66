package main

// Address is a street address pinned to a point on the map.
type Address struct {
	ID        int64   `json:"id"`
	Street    string  `json:"street"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Zip       string  `json:"zip" validate:"zip5"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Location reports where the address sits.
func (a Address) Location() Point {
	return Point{Lat: a.Latitude, Lon: a.Longitude}
}

// addressRequest is the body of a create or update call. Pointer fields tell
// an absent field apart from a zero value.
type addressRequest struct {
	Street    *string  `json:"street" validate:"required"`
	City      *string  `json:"city" validate:"required"`
	State     *string  `json:"state" validate:"required"`
	Zip       *string  `json:"zip" validate:"required,zip5"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// address converts a validated request; any ID the client sent is dropped.
func (r addressRequest) address() Address {
	return Address{
		Street:    *r.Street,
		City:      *r.City,
		State:     *r.State,
		Zip:       *r.Zip,
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
	}
}
