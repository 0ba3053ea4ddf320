package interfaces

import (
	"context"

	"tradebot/internal/types"
)

// Advisor runs the full headline -> sentiment -> suggestion pipeline once.
type Advisor interface {
	Run(ctx context.Context) (*types.Report, error)
}
