package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("", "verbose")
	assert.Error(t, err)
}

func TestNew_DefaultLevel(t *testing.T) {
	log, err := New("", "")
	require.NoError(t, err)
	defer log.Close()
}

func TestLogger_FormatsMessages(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("booking id=%d created", 7)
	log.Warn("slot %s taken", "09:00")
	log.With("practice", 3).Error("failed: %v", "boom")

	entries := recorded.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "booking id=7 created", entries[0].Message)
	assert.Equal(t, "slot 09:00 taken", entries[1].Message)
	assert.Equal(t, "failed: boom", entries[2].Message)
	assert.Equal(t, int64(3), entries[2].ContextMap()["practice"])
}
