package models

import (
	"math"
	"time"
)

// Location - геоточка отметки прихода/ухода
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Accuracy  float64   `json:"accuracy,omitempty"`
}

const earthRadiusKm = 6371.0

// DistanceFrom возвращает расстояние по большому кругу в километрах
func (l Location) DistanceFrom(other Location) float64 {
	latDelta := toRadians(other.Latitude - l.Latitude)
	lonDelta := toRadians(other.Longitude - l.Longitude)

	a := math.Sin(latDelta/2)*math.Sin(latDelta/2) +
		math.Cos(toRadians(l.Latitude))*math.Cos(toRadians(other.Latitude))*
			math.Sin(lonDelta/2)*math.Sin(lonDelta/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
