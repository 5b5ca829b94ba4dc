package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Minutes is a duration in whole minutes. Decoding is lenient: null,
// missing, non-numeric or non-finite values become 0 so cached records
// written by older clients never poison aggregates.
type Minutes int

func (m *Minutes) UnmarshalJSON(data []byte) error {
	*m = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var s string
		if json.Unmarshal(data, &s) != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*m = Minutes(int(f))
	return nil
}

func (m Minutes) Int() int {
	return int(m)
}

// IntPtr returns nil for zero so optional request fields stay omitted.
func (m Minutes) IntPtr() *int {
	if m == 0 {
		return nil
	}
	v := int(m)
	return &v
}
