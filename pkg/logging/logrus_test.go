package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestCreateLogger(t *testing.T) {
	level := "info"
	log := NewLogrus(level, os.Stdout)

	assert.Equal(t, log.level, level)
}

func TestGetLogger(t *testing.T) {
	log := NewLogrus("info", os.Stdout)
	logger := log.Get("Testing")
	assert.Equal(t, logger.Logger.Out, os.Stdout)
	assert.Equal(t, "Testing", logger.Data["Context"])
}

func TestGetLoggerWhenInvalidLevelThenInfo(t *testing.T) {
	logger := NewLogrus("loud", os.Stdout).Get("Testing")
	assert.Equal(t, logrus.InfoLevel, logger.Logger.GetLevel())
}

func TestGetLoggerWithJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrus("debug", &buf).WithJSON().Get("session")
	logger.Info("driver ready")
	assert.Contains(t, buf.String(), `"Context":"session"`)
	assert.Contains(t, buf.String(), `"msg":"driver ready"`)
}

func TestForNode(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ForNode(logger, 7).Info("ready")
	assert.Equal(t, 7, hook.LastEntry().Data["node"])
}
