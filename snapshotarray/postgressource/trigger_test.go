package postgressource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_IntervalTrigger_FiresOncePerInterval(t *testing.T) {
	// arrange
	trigger, err := IntervalTrigger()(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = trigger.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// act
	start := time.Now()
	waitErr := trigger.Wait(ctx)

	// assert
	assert.NoError(t, waitErr)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func Test_IntervalTrigger_ReturnsContextErrorWhenCanceled(t *testing.T) {
	// arrange
	trigger, err := IntervalTrigger()(context.Background(), time.Hour)
	require.NoError(t, err)
	defer func() { _ = trigger.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	waitErr := trigger.Wait(ctx)

	// assert
	assert.ErrorIs(t, waitErr, context.Canceled)
}

func Test_WithPollInterval_IsHandedToTheTrigger(t *testing.T) {
	// arrange
	trigger := newFakeTrigger()
	source := givenSource(t, &fakeDB{}, trigger, WithPollInterval(250*time.Millisecond))

	// act
	reg, err := source.Listen(context.Background(), (&recordingListener{}).listen)
	require.NoError(t, err)
	defer reg.Remove()

	// assert
	assert.Equal(t, 250*time.Millisecond, trigger.interval)
}
