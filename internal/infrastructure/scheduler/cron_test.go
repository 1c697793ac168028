package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/infrastructure/scheduler"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, scheduler.Validate("0 6 * * *"))
	assert.Error(t, scheduler.Validate("cada día"))
}

func TestAdd_RegistraYDetiene(t *testing.T) {
	c := scheduler.New(zerolog.Nop(), time.Second)
	require.NoError(t, c.Add("renovaciones", "0 6 * * *", func(context.Context) error { return nil }))
	assert.Equal(t, 1, c.Entries())
	assert.Error(t, c.Add("mala", "61 * * * *", func(context.Context) error { return nil }))

	c.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c.Stop(ctx)
}
