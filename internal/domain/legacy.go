package domain

import (
	"strings"

	"github.com/google/uuid"
)

// LegacyRecord is the shape the browser version of the logbook kept in
// localStorage and offered for backup. Numbers are nullable and the id is a
// millisecond timestamp.
type LegacyRecord struct {
	ID              int64    `json:"id"`
	Date            string   `json:"date"`
	Destination     string   `json:"destination"`
	Reason          string   `json:"reason"`
	User            string   `json:"user"`
	StartKm         *float64 `json:"startKm"`
	EndKm           *float64 `json:"endKm"`
	LastFuelKm      *float64 `json:"lastFuelKm"`
	CurrentFuelKm   *float64 `json:"currentFuelKm"`
	FuelLiters      *float64 `json:"fuelLiters"`
	FuelConsumption *float64 `json:"fuelConsumption"`
}

// ToTripRecord converts a legacy entry. A fresh ID is assigned; the stored
// fuel consumption is carried over as-is rather than recomputed.
func (l LegacyRecord) ToTripRecord() TripRecord {
	r := TripRecord{
		ID:              uuid.New(),
		Date:            strings.TrimSpace(l.Date),
		Destination:     l.Destination,
		Reason:          l.Reason,
		User:            l.User,
		StartKm:         deref(l.StartKm),
		EndKm:           deref(l.EndKm),
		FuelConsumption: l.FuelConsumption,
	}
	if l.LastFuelKm != nil || l.CurrentFuelKm != nil || l.FuelLiters != nil {
		r.Fuel = &Refuel{
			LastKm:    deref(l.LastFuelKm),
			CurrentKm: deref(l.CurrentFuelKm),
			Liters:    deref(l.FuelLiters),
		}
	}
	return r
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
