// Package database owns the local SQLite reporting store: opening the
// connection, bootstrapping the schema, and the per-table repositories in
// its subpackages.
//
// # Organization
//
//   - database.go - connection setup and schema migration
//   - syncruns/   - sync_log repository (one row per sync attempt)
//   - watermarks/ - sync_status repository (per-dataset resume cursor)
//   - yield/      - yield_data + yield_data_history repository
//   - sales/      - sales_data repository (replace-window)
//   - tank/       - tank_data repository (replace-window)
package database
