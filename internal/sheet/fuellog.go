package sheet

import (
	"fmt"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/grouping"
	"github.com/pkordes/fuel-logbook/internal/rocdate"
)

// Fuel log cell addresses.
const (
	fuelLogMonthCell = "G3"

	fuelLogFirstRow = 6
	fuelLogLastRow  = 27

	colDay         = "A"
	colStartKm     = "B"
	colEndKm       = "C"
	colLiters      = "F"
	colFuelKm      = "G"
	colKmSinceFuel = "H"
	colConsumption = "J"
)

// FuelLogRows is the number of day rows the fuel log template holds.
const FuelLogRows = fuelLogLastRow - fuelLogFirstRow + 1 // 22

// FuelLogFilename names the fuel log after the Minguo year and month of the
// first record's date.
func FuelLogFilename(firstDate string) string {
	d, err := rocdate.Parse(firstDate)
	if err != nil {
		return "消耗油料登記表_000-00.xlsx"
	}
	return fmt.Sprintf("消耗油料登記表_%d-%02d.xlsx", d.ROCYear(), d.Month)
}

// FuelLogDay is the aggregate written on one fuel log row.
type FuelLogDay struct {
	Date    string
	StartKm float64 // first record of the day
	EndKm   float64 // last record of the day

	// Fuel is the first fuel-bearing record of the day, nil if none.
	Fuel *domain.TripRecord
}

// FuelLogDays groups records by calendar day in first-appearance order.
// Unlike the dispatch sheet, the first fuel-bearing record of a day wins.
func FuelLogDays(records []domain.TripRecord) []FuelLogDay {
	groups := grouping.By(records, func(r domain.TripRecord) string { return r.Date })
	days := make([]FuelLogDay, 0, len(groups))
	for _, g := range groups {
		day := FuelLogDay{
			Date:    g.Key,
			StartKm: g.Items[0].StartKm,
			EndKm:   g.Items[len(g.Items)-1].EndKm,
		}
		for i := range g.Items {
			if g.Items[i].HasFuel() {
				day.Fuel = &g.Items[i]
				break
			}
		}
		days = append(days, day)
	}
	return days
}

// FillFuelLog writes the whole record set onto a fuel log, one row per day.
// Days beyond FuelLogRows are dropped.
func FillFuelLog(w CellWriter, records []domain.TripRecord) error {
	if len(records) == 0 {
		return nil
	}

	if label := rocdate.FormatYearMonth(records[0].Date); label != "" {
		if err := w.SetCellValue(fuelLogMonthCell, label); err != nil {
			return err
		}
	}

	for i, day := range FuelLogDays(records) {
		if i >= FuelLogRows {
			break
		}
		if err := fillFuelLogRow(w, fuelLogFirstRow+i, day); err != nil {
			return err
		}
	}
	return nil
}

func fillFuelLogRow(w CellWriter, row int, day FuelLogDay) error {
	if d, err := rocdate.Parse(day.Date); err == nil {
		if err := w.SetCellValue(cellName(colDay, row), d.Day); err != nil {
			return err
		}
	}
	if err := w.SetCellValue(cellName(colStartKm, row), day.StartKm); err != nil {
		return err
	}
	if err := w.SetCellValue(cellName(colEndKm, row), day.EndKm); err != nil {
		return err
	}

	if day.Fuel == nil {
		return nil
	}
	f := day.Fuel.Fuel
	if err := w.SetCellValue(cellName(colLiters, row), f.Liters); err != nil {
		return err
	}
	if err := w.SetCellValue(cellName(colFuelKm, row), f.CurrentKm); err != nil {
		return err
	}
	if km, ok := f.KmSinceLastFuel(); ok {
		if err := w.SetCellValue(cellName(colKmSinceFuel, row), km); err != nil {
			return err
		}
	}
	if c := day.Fuel.FuelConsumption; c != nil {
		if err := w.SetCellValue(cellName(colConsumption, row), *c); err != nil {
			return err
		}
	}
	return nil
}
