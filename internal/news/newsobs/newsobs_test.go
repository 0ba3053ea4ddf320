package newsobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	headlines []string
	err       error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Headlines(ctx context.Context) ([]string, error) {
	return f.headlines, f.err
}

func TestWrapPassesThrough(t *testing.T) {
	wrapped := Wrap(&fakeSource{headlines: []string{"Congress passes bill", "Election called"}})
	assert.Equal(t, "fake", wrapped.Name())

	got, err := wrapped.Headlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Congress passes bill", "Election called"}, got)
}

func TestWrapReturnsSourceError(t *testing.T) {
	errDown := errors.New("newsapi down")
	wrapped := Wrap(&fakeSource{headlines: []string{"stale"}, err: errDown})

	got, err := wrapped.Headlines(context.Background())
	assert.ErrorIs(t, err, errDown)
	assert.Nil(t, got)
}
