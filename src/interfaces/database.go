package interfaces

import (
	"context"

	"mms-curvature/src/models"
)

// -----------------------------------------------------------------------------
// ITableSink defines the contract for writing the result table.
// -----------------------------------------------------------------------------

type ITableSink interface {

	// -----------------------------------------------------------------------------

	// Initialize opens the destination and prepares the schema.
	Initialize(ctx context.Context) error

	// -----------------------------------------------------------------------------

	// SaveTable writes every row of the table.
	SaveTable(ctx context.Context, table *models.MResultTable) error

	// -----------------------------------------------------------------------------

	// Close releases the destination.
	Close() error
}
