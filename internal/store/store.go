package store

import (
	"context"

	"github.com/sells-group/dealer-scorecard/internal/attribution"
	"github.com/sells-group/dealer-scorecard/internal/model"
)

// Store defines the persistence interface for the scorecard.
type Store interface {
	// Attribution
	ReplaceAttribution(ctx context.Context, m model.AttributionMap) error
	LoadAttribution(ctx context.Context) (model.AttributionMap, error)

	// Report CSV text, one per manager and report type
	SaveReportCSV(ctx context.Context, manager string, rt model.ReportType, csv string) (*model.ReportUpload, error)
	GetReportCSV(ctx context.Context, manager string, rt model.ReportType) (*model.ReportUpload, error)

	// Last good output
	SaveSnapshot(ctx context.Context, snap *model.Snapshot) error
	GetSnapshot(ctx context.Context, manager string, rt model.ReportType) (*model.Snapshot, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// attributionRows flattens the map into rows ordered by city, manager, dealer.
func attributionRows(m model.AttributionMap) [][]any {
	rows := make([][]any, 0, len(m))
	for _, a := range attribution.Entries(m) {
		rows = append(rows, []any{a.DealerName, a.City, a.BusinessManager})
	}
	return rows
}
