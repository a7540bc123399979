package domain

// DocumentKind identifies which template a finished document was built from.
type DocumentKind string

const (
	// KindDispatch is the per-driver, per-day dispatch/mileage sheet.
	KindDispatch DocumentKind = "dispatch"
	// KindFuelLog is the monthly fuel-consumption log.
	KindFuelLog DocumentKind = "fuel_log"
)

// Document is one finished spreadsheet ready for delivery.
type Document struct {
	Kind     DocumentKind
	Filename string
	Data     []byte
}

// ContentTypeXLSX is the MIME type of every Document produced by the exporters.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
