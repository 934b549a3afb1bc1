package config

const (
	// DefaultDatabasePath is the default path for the local reporting database.
	DefaultDatabasePath = "./data/yield-rewind.db"

	// DefaultEpoch is the first day of the current data-collection period.
	// Full syncs (and first-ever incremental syncs) start here.
	DefaultEpoch = "2025-01-01"
)
