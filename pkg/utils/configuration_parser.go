package utils

import (
	"os"
	"path/filepath"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type config interface {
	entities.IntegrationZWaveConfig | []entities.ReplayEvent
}

func readTextFile(filepathName string) ([]byte, error) {
	fileContent, err := os.ReadFile(filepath.Clean(filepathName))
	return fileContent, err
}

func ConfigurationParser[T config](filepathName string, configEntity T) (T, error) {
	fileContent, err := readTextFile(filepath.Clean(filepathName))
	if err != nil {
		return configEntity, err
	}

	err = yaml.Unmarshal(fileContent, &configEntity)
	return configEntity, err
}

// LoadZWaveConfig parses the bridge configuration, applies environment
// overrides and defaults, then validates it.
func LoadZWaveConfig(filepathName string) (entities.IntegrationZWaveConfig, error) {
	conf, err := ConfigurationParser(filepathName, entities.IntegrationZWaveConfig{})
	if err != nil {
		return conf, errors.Wrapf(err, "read configuration %s", filepathName)
	}
	conf.Topic = GetValueFromEnvironmentVariable("ZWAVE_TOPIC", conf.Topic)
	conf.DevicePath = GetValueFromEnvironmentVariable("ZWAVE_DEVICE_PATH", conf.DevicePath)
	conf.Bus.URL = GetValueFromEnvironmentVariable("ZWAVE_BUS_URL", conf.Bus.URL)
	conf.LogLevel = GetValueFromEnvironmentVariable("LOG_LEVEL", conf.LogLevel)
	conf = conf.WithDefaults()
	return conf, ValidateZWaveConfig(conf)
}

func ValidateZWaveConfig(conf entities.IntegrationZWaveConfig) error {
	switch conf.Bus.Kind {
	case entities.BusNone:
	case entities.BusMQTT, entities.BusAMQP, entities.BusRedis:
		if conf.Bus.URL == "" {
			return errors.Errorf("bus %q needs an url", conf.Bus.Kind)
		}
	default:
		return errors.Errorf("unknown bus kind %q", conf.Bus.Kind)
	}
	if conf.Topic == "" {
		return errors.New("empty topic")
	}
	return nil
}

func GetValueFromEnvironmentVariable(variableName, defaultValue string) string {
	value := os.Getenv(variableName)
	if value != "" {
		return value
	}
	return defaultValue
}
