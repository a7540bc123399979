// Package domain contains the core data types for the fuel logbook.
// This package is imported by every other internal package (repo, service,
// sheet, handler) and depends only on uuid and decimal.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripRecord is one logged vehicle use.
// Records are immutable once created; the export layer only reads them.
//
// Date is an ISO "2006-01-02" calendar date kept as a string so it is never
// shifted by a timezone.
type TripRecord struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date" validate:"required,datetime=2006-01-02"`
	Destination string    `json:"destination" validate:"required"`
	Reason      string    `json:"reason,omitempty"`
	User        string    `json:"user" validate:"required"`
	StartKm     float64   `json:"start_km" validate:"gte=0"`
	EndKm       float64   `json:"end_km" validate:"gt=0"`

	// Fuel is nil when no refueling happened on this trip.
	Fuel *Refuel `json:"fuel,omitempty" validate:"omitempty"`

	// FuelConsumption is km per liter, derived once by the record service.
	FuelConsumption *float64 `json:"fuel_consumption,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Refuel is the refueling triple recorded alongside a trip.
// A zero field means "not supplied"; see TripRecord.HasFuel.
type Refuel struct {
	LastKm    float64 `json:"last_km" validate:"gte=0"`
	CurrentKm float64 `json:"current_km" validate:"gte=0"`
	Liters    float64 `json:"liters" validate:"gte=0"`
}

// HasFuel reports whether the record is fuel-bearing: liters and the odometer
// reading at the pump are both positive. Partial triples count as no fuel.
func (r TripRecord) HasFuel() bool {
	return r.Fuel != nil && r.Fuel.Liters > 0 && r.Fuel.CurrentKm > 0
}

// KmSinceLastFuel returns the distance driven since the previous refuel.
// ok is false when the previous reading is missing or the difference is not
// positive, in which case nothing should be written.
func (f Refuel) KmSinceLastFuel() (km float64, ok bool) {
	if f.LastKm <= 0 {
		return 0, false
	}
	diff := f.CurrentKm - f.LastKm
	if diff <= 0 {
		return 0, false
	}
	return diff, true
}

// FuelConsumption returns (currentKm - lastKm) / liters in km/l, rounded to
// two decimal places. ok is false unless all three inputs are present
// (non-zero), liters is positive and the distance is positive.
func FuelConsumption(lastKm, currentKm, liters float64) (kmPerLiter float64, ok bool) {
	if lastKm == 0 || currentKm == 0 || liters <= 0 {
		return 0, false
	}
	dist := decimal.NewFromFloat(currentKm).Sub(decimal.NewFromFloat(lastKm))
	if !dist.IsPositive() {
		return 0, false
	}
	v, _ := dist.Div(decimal.NewFromFloat(liters)).Round(2).Float64()
	return v, true
}

// RecordFilter narrows a record listing to an inclusive date range.
// Empty bounds are open.
type RecordFilter struct {
	From string
	To   string
}

// Match reports whether the record's date falls inside the filter.
// ISO dates compare correctly as strings.
func (f RecordFilter) Match(r TripRecord) bool {
	if f.From != "" && r.Date < f.From {
		return false
	}
	if f.To != "" && r.Date > f.To {
		return false
	}
	return true
}

// NextDefaults carries the values a new entry form is pre-filled with:
// the odometer continues from the last trip, reason and driver carry over.
type NextDefaults struct {
	StartKm float64 `json:"start_km"`
	Reason  string  `json:"reason,omitempty"`
	User    string  `json:"user,omitempty"`
}
