package report

// File permission constants.
const (
	logFilePermission   = 0600
	outputPermission    = 0644
	directoryPermission = 0750
)

const dateLayout = "2006-01-02"

// gapCell marks a slot the athlete has no value for.
const gapCell = "brak"

// Footer labels.
const (
	bestLabel = "Najlepszy"
	maxLabel  = "Maks."
)
