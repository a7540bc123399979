package sheet

import (
	"fmt"
	"strings"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/rocdate"
)

// Dispatch sheet cell addresses.
const (
	dispatchReasonCell  = "C2"
	dispatchDateCell    = "C4"
	dispatchDriverCell  = "I5"
	dispatchStartKmCell = "D8"

	// Left body column: destination in B, end km in D, rows 9..19.
	leftDestCol  = "B"
	leftKmCol    = "D"
	leftFirstRow = 9
	leftLastRow  = 19

	// Right body column: destination in G, end km in I, rows 8..19.
	rightDestCol  = "G"
	rightKmCol    = "I"
	rightFirstRow = 8
	rightLastRow  = 19

	dispatchFuelDateCell   = "A23"
	dispatchFuelLitersCell = "E23"
	dispatchFuelKmCell     = "I23"
)

// Capacities of the two body columns.
const (
	DispatchLeftRows  = leftLastRow - leftFirstRow + 1   // 11
	DispatchRightRows = rightLastRow - rightFirstRow + 1 // 12
	DispatchCapacity  = DispatchLeftRows + DispatchRightRows
)

// DispatchKey identifies one dispatch sheet: one driver on one day.
type DispatchKey struct {
	Date string
	User string
}

// DispatchKeyOf is the grouping key for the dispatch document.
func DispatchKeyOf(r domain.TripRecord) DispatchKey {
	return DispatchKey{Date: r.Date, User: r.User}
}

// DispatchFilename names the document for a group.
func DispatchFilename(k DispatchKey) string {
	return fmt.Sprintf("派車單里程_%s_%s.xlsx", safeName(k.Date), safeName(k.User))
}

// DispatchSlot returns the destination and end-km cells for the i-th item of
// a group. ok is false once both columns are full.
func DispatchSlot(i int) (destCell, kmCell string, ok bool) {
	switch {
	case i < 0:
		return "", "", false
	case i < DispatchLeftRows:
		row := leftFirstRow + i
		return cellName(leftDestCol, row), cellName(leftKmCol, row), true
	case i < DispatchCapacity:
		row := rightFirstRow + i - DispatchLeftRows
		return cellName(rightDestCol, row), cellName(rightKmCol, row), true
	default:
		return "", "", false
	}
}

// FillDispatch writes one date+driver group onto a dispatch sheet.
//
// Items fill the left column then the right; the pass stops at
// DispatchCapacity and later items are dropped. The fuel block holds the last
// fuel-bearing record written and is left untouched when there is none.
func FillDispatch(w CellWriter, key DispatchKey, records []domain.TripRecord) error {
	if len(records) == 0 {
		return nil
	}
	first := records[0]

	if first.Reason != "" {
		if err := w.SetCellValue(dispatchReasonCell, first.Reason); err != nil {
			return err
		}
	}
	if err := w.SetCellValue(dispatchDateCell, rocdate.Format(key.Date)); err != nil {
		return err
	}
	if err := w.SetCellValue(dispatchStartKmCell, first.StartKm); err != nil {
		return err
	}
	if err := w.SetCellValue(dispatchDriverCell, key.User); err != nil {
		return err
	}

	var fuel *domain.TripRecord
	for i := range records {
		destCell, kmCell, ok := DispatchSlot(i)
		if !ok {
			break
		}
		r := &records[i]
		if err := w.SetCellValue(destCell, r.Destination); err != nil {
			return err
		}
		if err := w.SetCellValue(kmCell, r.EndKm); err != nil {
			return err
		}
		if r.HasFuel() {
			fuel = r
		}
	}

	if fuel == nil {
		return nil
	}
	if err := w.SetCellValue(dispatchFuelDateCell, rocdate.Format(fuel.Date)); err != nil {
		return err
	}
	if err := w.SetCellValue(dispatchFuelLitersCell, fuel.Fuel.Liters); err != nil {
		return err
	}
	return w.SetCellValue(dispatchFuelKmCell, fuel.Fuel.CurrentKm)
}

func cellName(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// safeName keeps user-entered text from introducing path separators into a
// filename.
func safeName(s string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(strings.TrimSpace(s))
}
