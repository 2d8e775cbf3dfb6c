package logging_test

import (
	"testing"

	"github.com/on-the-ground/compiled_reflect/shared/logging"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	lvl, err := logging.ParseLevel("")
	assert.NoError(t, err)
	assert.Equal(t, zap.InfoLevel, lvl)

	lvl, err = logging.ParseLevel("debug")
	assert.NoError(t, err)
	assert.Equal(t, zap.DebugLevel, lvl)

	_, err = logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewConsole(t *testing.T) {
	logger := logging.NewConsole(zap.WarnLevel)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.ErrorLevel))
	assert.True(t, logging.NewTest().Core().Enabled(zap.DebugLevel))
}
