package advisorobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebot/internal/types"
)

type fakeAdvisor struct {
	report *types.Report
	err    error
}

func (f *fakeAdvisor) Run(ctx context.Context) (*types.Report, error) {
	return f.report, f.err
}

func TestWrapReturnsReport(t *testing.T) {
	want := &types.Report{Direction: types.Hold, Sentiment: 0.1}

	got, err := Wrap(&fakeAdvisor{report: want}).Run(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestWrapKeepsStageError(t *testing.T) {
	cause := errors.New("all feeds failed")
	adv := &fakeAdvisor{err: &types.StageError{Stage: types.StageAcquisition, Err: cause}}

	got, err := Wrap(adv).Run(context.Background())
	assert.Nil(t, got)

	var stageErr *types.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, types.StageAcquisition, stageErr.Stage)
	assert.ErrorIs(t, err, cause)
}
