package infrastructure

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRunID(t *testing.T) {
	first := GenerateRunID()
	second := GenerateRunID()

	assert.NotEqual(t, first, second)
	_, err := uuid.Parse(first)
	assert.NoError(t, err)
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = WithRunID(ctx, "run-42")
	assert.Equal(t, "run-42", GetRunID(ctx))
}

func TestEnsureRunID(t *testing.T) {
	ctx := EnsureRunID(context.Background())
	runID := GetRunID(ctx)
	require.NotEmpty(t, runID)

	// Already present, not replaced.
	again := EnsureRunID(ctx)
	assert.Equal(t, runID, GetRunID(again))
}

func TestLoggerHelpers(t *testing.T) {
	logger := GetLogger()

	assert.NotNil(t, WithComponent(logger, "loader"))
	assert.NotNil(t, WithError(logger, assert.AnError))
	assert.Equal(t, logger, WithError(logger, nil))
}
