package interfaces

import "tradebot/internal/types"

// Recorder receives advisor run metrics.
type Recorder interface {
	RecordRun(report *types.Report)
	RecordStageFailure(stage types.Stage)
	RecordLatency(stage types.Stage, seconds float64)
}
