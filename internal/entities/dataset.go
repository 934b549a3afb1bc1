package entities

import "fmt"

// DateLayout is the canonical day format used everywhere a calendar date is
// persisted or exchanged: record dates, sync ranges, watermark cursors.
const DateLayout = "2006-01-02"

// Dataset identifies one of the replicated data kinds. The key is used
// consistently across the watermark, the sync log and table naming.
type Dataset string

const (
	DatasetYield Dataset = "yield"
	DatasetSales Dataset = "sales"
	DatasetTank  Dataset = "tank"
)

// AllDatasets lists every dataset in sync order.
var AllDatasets = []Dataset{DatasetYield, DatasetSales, DatasetTank}

// ParseDataset validates a dataset key from user input ("all" expands to
// every dataset).
func ParseDataset(s string) ([]Dataset, error) {
	switch Dataset(s) {
	case DatasetYield, DatasetSales, DatasetTank:
		return []Dataset{Dataset(s)}, nil
	}
	if s == "all" {
		return AllDatasets, nil
	}
	return nil, fmt.Errorf("unknown dataset %q (expected yield, sales, tank or all)", s)
}
