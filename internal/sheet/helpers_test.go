package sheet_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/sheet"
)

// memSheet is an in-memory CellWriter that records every write.
type memSheet map[string]any

func (m memSheet) SetCellValue(cell string, v any) error {
	m[cell] = v
	return nil
}

// compile-time check: memSheet must satisfy sheet.CellWriter.
var _ sheet.CellWriter = memSheet(nil)

// failingSheet rejects every write.
type failingSheet struct{}

var errWrite = errors.New("write rejected")

func (failingSheet) SetCellValue(string, any) error { return errWrite }

func record(date, user, dest string, startKm, endKm float64) domain.TripRecord {
	return domain.TripRecord{
		Date:        date,
		User:        user,
		Destination: dest,
		Reason:      "公務",
		StartKm:     startKm,
		EndKm:       endKm,
	}
}

func withFuel(r domain.TripRecord, lastKm, currentKm, liters float64) domain.TripRecord {
	r.Fuel = &domain.Refuel{LastKm: lastKm, CurrentKm: currentKm, Liters: liters}
	if c, ok := domain.FuelConsumption(lastKm, currentKm, liters); ok {
		r.FuelConsumption = &c
	}
	return r
}

// templateBytes builds a minimal single-sheet workbook, standing in for the
// real printed-form templates.
func templateBytes(t *testing.T, title string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", title))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// readBack opens serialized workbook bytes and returns a raw cell reader for
// its first sheet.
func readBack(t *testing.T, data []byte) func(cell string) string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	name := f.GetSheetList()[0]
	return func(cell string) string {
		v, err := f.GetCellValue(name, cell, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}
}
