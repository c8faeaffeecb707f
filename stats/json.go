package stats

import (
	"encoding/json"
	"math"
	"strconv"
)

// Float is a float64 that encodes NaN and infinities as JSON null.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}

	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = Float(v)

	return nil
}

// statsJSON is the wire form of Stats. Moments of a constant or empty
// population are undefined and travel as null.
type statsJSON struct {
	N        int   `json:"n"`
	Min      Float `json:"min"`
	Max      Float `json:"max"`
	Mean     Float `json:"mean"`
	Variance Float `json:"variance"`
	Skewness Float `json:"skewness"`
	Kurtosis Float `json:"kurtosis"`
}

// MarshalJSON implements json.Marshaler.
func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(statsJSON{
		N:        s.N,
		Min:      Float(s.Min),
		Max:      Float(s.Max),
		Mean:     Float(s.Mean),
		Variance: Float(s.Variance),
		Skewness: Float(s.Skewness),
		Kurtosis: Float(s.Kurtosis),
	})
}

// UnmarshalJSON implements json.Unmarshaler; null moments decode to NaN.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var w statsJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*s = Stats{
		N:        w.N,
		Min:      float64(w.Min),
		Max:      float64(w.Max),
		Mean:     float64(w.Mean),
		Variance: float64(w.Variance),
		Skewness: float64(w.Skewness),
		Kurtosis: float64(w.Kurtosis),
	}

	return nil
}
