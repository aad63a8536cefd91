package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerSilent(t *testing.T) {
	original := GetLogger()
	originalVerbose := GetVerbose()
	t.Cleanup(func() {
		SetLogger(original)
		SetVerbose(originalVerbose)
	})

	InitLogger(false, true)
	assert.False(t, GetVerbose())
	require.NotNil(t, GetLogger())

	// Nothing should be written, but calls must be safe.
	LogInfo("info %d", 1)
	LogDebug("debug %d", 2)
	LogWarn("warn %d", 3)
	LogError("error %d", 4)
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	original := GetLogger()
	SetLogger(nil)
	assert.Same(t, original, GetLogger())
}

func TestNewSeededRandIsDeterministic(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	_, err := NewSeededRand(42).Read(a)
	require.NoError(t, err)
	_, err = NewSeededRand(42).Read(b)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
