package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodePayload(t *testing.T) {
	cases := map[string]struct {
		in       interface{}
		expected string
	}{
		"bool":   {in: true, expected: "true"},
		"int":    {in: 42, expected: "42"},
		"float":  {in: 21.5, expected: "21.5"},
		"string": {in: "on", expected: "on"},
		"bytes":  {in: []byte("raw"), expected: "raw"},
		"nil":    {in: nil, expected: ""},
		"map":    {in: map[string]int{"a": 1}, expected: `{"a":1}`},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			body, err := EncodePayload(c.in)
			assert.NoError(t, err)
			assert.Equal(t, c.expected, string(body))
		})
	}
}

func TestEncodePayloadWhenUnsupportedThenError(t *testing.T) {
	_, err := EncodePayload(make(chan int))
	assert.Error(t, err)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "zwave.nodeready.3", RoutingKey("zwave/nodeready/3"))
	assert.Equal(t, "zwave.*.*.*.set", RoutingKey("zwave/+/+/+/set"))
	assert.Equal(t, "zwave.#", RoutingKey("zwave/#"))
	assert.Equal(t, "zwave/5/scene", TopicFromRoutingKey("zwave.5.scene"))
}

func TestRedisPattern(t *testing.T) {
	assert.Equal(t, "zwave/*/*/*/set", RedisPattern("zwave/+/+/+/set"))
	assert.Equal(t, "zwave/*", RedisPattern("zwave/#"))
}
