package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("2024-02-30")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = ParseDate("15/03/2024")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestAddMonths_Clamps(t *testing.T) {
	cases := map[string]struct {
		from   string
		months int
		want   string
	}{
		"mid month":         {"2024-03-15", -3, "2023-12-15"},
		"leap february":     {"2024-05-31", -3, "2024-02-29"},
		"non-leap february": {"2023-05-31", -3, "2023-02-28"},
		"thirty day month":  {"2024-07-31", -3, "2024-04-30"},
		"crosses year":      {"2024-01-31", -3, "2023-10-31"},
		"forward":           {"2024-01-31", 1, "2024-02-29"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, MustParseDate(tc.from).AddMonths(tc.months).String())
		})
	}
}

func TestDaysUntil(t *testing.T) {
	start := MustParseDate("2023-12-15")
	end := MustParseDate("2024-03-15")
	assert.Equal(t, 91, start.DaysUntil(end))
	assert.Equal(t, 0, end.DaysUntil(end))
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, MustParseDate("2024-03-16").IsWeekend())  // Saturday
	assert.True(t, MustParseDate("2024-03-17").IsWeekend())  // Sunday
	assert.False(t, MustParseDate("2024-03-18").IsWeekend()) // Monday
	assert.False(t, MustParseDate("2024-03-15").IsWeekend()) // Friday
}

func TestBetween_Inclusive(t *testing.T) {
	a, b := MustParseDate("2024-01-01"), MustParseDate("2024-01-31")
	assert.True(t, a.Between(a, b))
	assert.True(t, b.Between(a, b))
	assert.False(t, MustParseDate("2024-02-01").Between(a, b))
}

func TestDateOf_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-16", DateOf(ts.In(tokyo)).String())
	assert.Equal(t, "2024-03-15", DateOf(ts).String())
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"date"`
	}{MustParseDate("2024-01-05")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-05"}`, string(b))

	var out struct {
		D Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-02-29"}`), &out))
	assert.Equal(t, "2024-02-29", out.D.String())
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-02", d.String())

	require.NoError(t, d.Scan("2024-01-03"))
	assert.Equal(t, "2024-01-03", d.String())

	require.NoError(t, d.Scan([]byte("2024-01-04T00:00:00Z")))
	assert.Equal(t, "2024-01-04", d.String())

	assert.Error(t, d.Scan(nil))
	assert.Error(t, d.Scan(42))
}
