package soc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Point is one category/value pair of a Series.
type Point struct {
	Label string
	Value float64
}

// Series is a JSON object decoded as an ordered list of points. Backends send
// chart datasets as objects whose key order is the display order, which a Go
// map would lose.
type Series []Point

// UnmarshalJSON reads a JSON object key by key. Entries whose value is not a
// number are skipped; null decodes to a nil Series.
func (s *Series) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("series: expected object, got %v", tok)
	}

	out := Series{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("series: expected string key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			continue
		}
		v, err := n.Float64()
		if err != nil {
			continue
		}
		out = append(out, Point{Label: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalJSON writes the series back out as an object in point order.
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, p := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(p.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Labels returns the point labels in order.
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Label
	}
	return out
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// SeriesOf zips labels and values into a Series, truncating to the shorter.
func SeriesOf(labels []string, values []float64) Series {
	n := len(labels)
	if len(values) < n {
		n = len(values)
	}
	out := make(Series, n)
	for i := 0; i < n; i++ {
		out[i] = Point{Label: labels[i], Value: values[i]}
	}
	return out
}
