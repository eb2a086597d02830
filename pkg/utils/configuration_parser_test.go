package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfiguration = `
topic: home/zwave
devicePath: /dev/ttyUSB0
bus:
  kind: mqtt
  url: tcp://localhost:1883
flows:
  file: /tmp/flows.json
`

func writeConfiguration(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "zwave_setup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestConfigurationParser(t *testing.T) {
	path := writeConfiguration(t, sampleConfiguration)
	conf, err := ConfigurationParser(path, entities.IntegrationZWaveConfig{})
	assert.NoError(t, err)
	assert.Equal(t, "home/zwave", conf.Topic)
	assert.Equal(t, "/dev/ttyUSB0", conf.DevicePath)
	assert.Equal(t, entities.BusMQTT, conf.Bus.Kind)
}

func TestConfigurationParserWhenMissingFileThenError(t *testing.T) {
	_, err := ConfigurationParser(filepath.Join(t.TempDir(), "missing.yaml"), entities.IntegrationZWaveConfig{})
	assert.Error(t, err)
}

func TestConfigurationParserReplayScript(t *testing.T) {
	path := writeConfiguration(t, "- event: node added\n  node: \"3\"\n- event: scan complete\n")
	events, err := ConfigurationParser(path, []entities.ReplayEvent{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 3, EnsureNumber(events[0].Node))
	assert.Equal(t, "scan complete", events[1].Event)
}

func TestLoadZWaveConfigAppliesDefaults(t *testing.T) {
	path := writeConfiguration(t, sampleConfiguration)
	conf, err := LoadZWaveConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "MQTT.Localhost", conf.Broker)
	assert.Equal(t, "coldfacts", conf.StatusPrefix)
	assert.Equal(t, "https://home-keeper.io/taglets", conf.SkaleTagletHost)
	assert.Equal(t, 120, conf.ScanTimeoutSec)
}

func TestLoadZWaveConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("ZWAVE_TOPIC", "override")
	path := writeConfiguration(t, sampleConfiguration)
	conf, err := LoadZWaveConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "override", conf.Topic)
}

func TestValidateZWaveConfig(t *testing.T) {
	conf := entities.IntegrationZWaveConfig{}.WithDefaults()
	assert.NoError(t, ValidateZWaveConfig(conf))

	conf.Bus.Kind = "carrier-pigeon"
	assert.Error(t, ValidateZWaveConfig(conf))

	conf.Bus.Kind = entities.BusAMQP
	assert.Error(t, ValidateZWaveConfig(conf))
}

func TestGetValueFromEnvironmentVariableWhenVariableExistsThenReturnValue(t *testing.T) {
	t.Setenv("TEST_VARIABLE", "0")
	assert.Equal(t, "0", GetValueFromEnvironmentVariable("TEST_VARIABLE", "1"))
}

func TestGetValueFromEnvironmentVariableWhenVariableNotExistsThenReturnDefaultValue(t *testing.T) {
	assert.Equal(t, "1", GetValueFromEnvironmentVariable("TEST_VARIABLE_2", "1"))
}
