package jcs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    string
		expected string
	}{
		{"sorted keys", `{"b":2,"a":1}`, `{"a":1,"b":2}`},
		{"nested structures", `{"z":{"b":[2,1]},"a":null}`, `{"a":null,"z":{"b":[2,1]}}`},
		{"integers lose fractions", `{"x":1.0}`, `{"x":1}`},
		{"doubles", `{"x":1.5}`, `{"x":1.5}`},
		{"booleans and null", `[true,false,null]`, `[true,false,null]`},
		{"string escapes", `{"a":"line\nbreak\ttab\"quote\""}`, `{"a":"line\nbreak\ttab\"quote\""}`},
		{"unicode passthrough", `{"a":"é"}`, "{\"a\":\"é\"}"},
		{"empty containers", `{"a":{},"b":[]}`, `{"a":{},"b":[]}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var v interface{}
			require.NoError(t, json.Unmarshal([]byte(tc.input), &v))
			out, err := Canonicalize(v)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(out))
		})
	}
}

func TestNumberToJSON(t *testing.T) {
	for _, tc := range []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{1.5, "1.5"},
		{-0.0, "0"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
		{333333333.33333329, "333333333.3333333"},
	} {
		actual, err := NumberToJSON(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, actual, "%v", tc.input)
	}
}

func TestNumberToJSON_Invalid(t *testing.T) {
	nan := func() float64 {
		zero := 0.0
		return zero / zero
	}()
	_, err := NumberToJSON(nan)
	assert.Error(t, err)
}
