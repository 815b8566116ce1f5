package constants

import "time"

// Defaults applied when the config file leaves a key unset.
const (
	DefaultRetentionDays = 90
	DefaultRetention     = DefaultRetentionDays * 24 * time.Hour

	DefaultLogLevel   = 1 // INFO
	DefaultLogMaxSize = 10
	DefaultLogMaxAge  = 7
	LogMaxBackups     = 3

	// ExportTimeLayout renders timestamps as DD-MM-YYYY HH:MM.
	ExportTimeLayout = "02-01-2006 15:04"
	ExportExt        = ".csv"
)
