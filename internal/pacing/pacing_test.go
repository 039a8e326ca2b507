package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	var got []string
	seq := Sequence{
		{Do: func() { got = append(got, "a") }},
		{After: time.Millisecond, Do: func() { got = append(got, "b") }},
		{After: time.Millisecond, Do: func() { got = append(got, "c") }},
	}

	require.NoError(t, seq.Run(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 2*time.Millisecond, seq.Total())
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0
	seq := Sequence{
		{Do: func() { ran++; cancel() }},
		{After: time.Hour, Do: func() { ran++ }},
	}

	err := seq.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, ran)
}

func TestStartCancelledBeforeFirstStep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	done := Sequence{{Do: func() { ran = true }}}.Start(ctx)

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, ran)
}

func TestStartDoesNotLeakWhenCancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := Sequence{{After: time.Hour}}.Start(ctx)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sequence did not stop after cancel")
	}
}
