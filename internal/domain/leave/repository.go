package leave

import (
	"context"
	"time"
)

// Registry is the read side used by reconciliation runs.
type Registry interface {
	// ListRecords returns date-specific records with start <= date <= end and
	// every weekly record.
	ListRecords(ctx context.Context, start, end time.Time) ([]Record, error)
}

// Repository is the registry store. Writes happen between runs, never
// during one.
type Repository interface {
	Registry
	Create(ctx context.Context, record Record) (Record, error)

	// CreateBatch stores every record or none of them
	CreateBatch(ctx context.Context, records []Record) ([]Record, error)
}
