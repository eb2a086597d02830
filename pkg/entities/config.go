package entities

const (
	BusNone  string = "none"
	BusMQTT  string = "mqtt"
	BusAMQP  string = "amqp"
	BusRedis string = "redis"
)

type BusConfig struct {
	Kind     string `yaml:"kind"`
	URL      string `yaml:"url"`
	ClientID string `yaml:"clientId"`
	Exchange string `yaml:"exchange"`
	Password string `yaml:"password"`
}

type FlowsConfig struct {
	File string `yaml:"file"`
}

type DriverConfig struct {
	ReplayFile string `yaml:"replayFile"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type IntegrationZWaveConfig struct {
	Topic           string       `yaml:"topic"`
	Broker          string       `yaml:"broker"`
	DevicePath      string       `yaml:"devicePath"`
	SkaleTagletHost string       `yaml:"skaleTagletHost"`
	StatusPrefix    string       `yaml:"statusPrefix"`
	LogLevel        string       `yaml:"logLevel"`
	ScanTimeoutSec  int          `yaml:"scanTimeoutSec"`
	Bus             BusConfig    `yaml:"bus"`
	Flows           FlowsConfig  `yaml:"flows"`
	Driver          DriverConfig `yaml:"driver"`
	HTTP            HTTPConfig   `yaml:"http"`
}

// WithDefaults returns a copy with every empty field set to its default.
func (c IntegrationZWaveConfig) WithDefaults() IntegrationZWaveConfig {
	setDefault(&c.Topic, "zwave")
	setDefault(&c.Broker, "MQTT.Localhost")
	setDefault(&c.DevicePath, "/dev/ttyACM0")
	setDefault(&c.SkaleTagletHost, "https://home-keeper.io/taglets")
	setDefault(&c.StatusPrefix, "coldfacts")
	setDefault(&c.LogLevel, "info")
	setDefault(&c.Bus.Kind, BusNone)
	setDefault(&c.Bus.ClientID, "zwave-bridge")
	setDefault(&c.Bus.Exchange, "zwave")
	setDefault(&c.HTTP.Addr, ":8090")
	if c.ScanTimeoutSec <= 0 {
		c.ScanTimeoutSec = 120
	}
	return c
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
