package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)

	_, err = parseSteps([]string{"many"})
	assert.Error(t, err)
}

func TestRun_RejectsBadInput(t *testing.T) {
	assert.Equal(t, exitFailure, run(nil))
	assert.Equal(t, exitFailure, run([]string{"sideways"}))
	assert.Equal(t, exitFailure, run([]string{"down", "-2"}))
}
