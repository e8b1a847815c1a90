package soc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_PreservesKeyOrder(t *testing.T) {
	var s Series
	require.NoError(t, json.Unmarshal([]byte(`{"Germany":18,"USA":45,"China":38}`), &s))

	assert.Equal(t, []string{"Germany", "USA", "China"}, s.Labels())
	assert.Equal(t, []float64{18, 45, 38}, s.Values())
}

func TestSeries_SkipsNonNumericValues(t *testing.T) {
	var s Series
	require.NoError(t, json.Unmarshal([]byte(`{"CPU":80,"Memory":"n/a","Disk":null,"Nested":{"a":1},"Net":90.5}`), &s))

	assert.Equal(t, Series{{"CPU", 80}, {"Net", 90.5}}, s)
}

func TestSeries_Null(t *testing.T) {
	s := Series{{"x", 1}}
	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Nil(t, s)
}

func TestSeries_RejectsNonObject(t *testing.T) {
	var s Series
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &s))
	assert.Error(t, json.Unmarshal([]byte(`"USA"`), &s))
}

func TestSeries_MarshalKeepsOrder(t *testing.T) {
	s := Series{{"Uptime", 98}, {"CPU", 85.5}}
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"Uptime":98,"CPU":85.5}`, string(out))

	out, err = json.Marshal(Series(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestSeriesOf(t *testing.T) {
	s := SeriesOf([]string{"a", "b", "c"}, []float64{1, 2})
	assert.Equal(t, Series{{"a", 1}, {"b", 2}}, s)
}
