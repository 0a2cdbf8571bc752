package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRate(t *testing.T) {
	cases := []struct {
		num, den int64
		want     string
	}{
		{0, 0, "0.0000"},
		{5, 0, "0.0000"},
		{1, 3, "0.3333"},
		{2, 3, "0.6667"},
		{1, 32, "0.0313"}, // exact half rounds up
		{1, 1, "1.0000"},
		{7, 150, "0.0467"},
		{0, 80, "0.0000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NewRate(tc.num, tc.den).String(), "%d/%d", tc.num, tc.den)
	}
}

func TestRate_JSONIsUnquotedFixedPoint(t *testing.T) {
	b, err := json.Marshal(map[string]Rate{"ctr": NewRate(1, 4)})
	require.NoError(t, err)
	assert.Equal(t, `{"ctr":0.2500}`, string(b))

	var out struct {
		CTR Rate `json:"ctr"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"ctr":0.125}`), &out))
	assert.True(t, out.CTR.Equal(MustRate("0.125")))
}

func TestRate_ScanFromDriverValues(t *testing.T) {
	var r Rate
	require.NoError(t, r.Scan([]byte("0.1234")))
	assert.Equal(t, "0.1234", r.String())

	require.NoError(t, r.Scan(0.5))
	assert.Equal(t, "0.5000", r.String())
}
