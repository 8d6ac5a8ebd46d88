package core

import "encoding/json"

// JSON forms for Version, VersionRange, and VersionSet. These exist so
// oracle decorators can persist dependency metadata and round-trip it back
// without loss; they are not a wire format for anything else.

// MarshalJSON renders the version as its string form.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON parses a version from its string form.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

type rangeJSON struct {
	Low           string `json:"low,omitempty"`
	LowInclusive  bool   `json:"lowInclusive,omitempty"`
	High          string `json:"high,omitempty"`
	HighInclusive bool   `json:"highInclusive,omitempty"`
}

func (r VersionRange) toJSON() rangeJSON {
	var out rangeJSON
	if r.low.present {
		out.Low = r.low.version.String()
		out.LowInclusive = r.low.inclusive
	}
	if r.high.present {
		out.High = r.high.version.String()
		out.HighInclusive = r.high.inclusive
	}
	return out
}

func rangeFromJSON(raw rangeJSON) (VersionRange, error) {
	var r VersionRange
	if raw.Low != "" {
		v, err := ParseVersion(raw.Low)
		if err != nil {
			return VersionRange{}, err
		}
		r.low = bound{present: true, version: v, inclusive: raw.LowInclusive}
	}
	if raw.High != "" {
		v, err := ParseVersion(raw.High)
		if err != nil {
			return VersionRange{}, err
		}
		r.high = bound{present: true, version: v, inclusive: raw.HighInclusive}
	}
	return r, nil
}

// MarshalJSON renders the range as its bounds; an absent bound is omitted.
func (r VersionRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toJSON())
}

// UnmarshalJSON parses a range from its bound form.
func (r *VersionRange) UnmarshalJSON(data []byte) error {
	var raw rangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := rangeFromJSON(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalJSON renders the set as an array of ranges: [] is the empty set,
// [{}] the universal one.
func (s VersionSet) MarshalJSON() ([]byte, error) {
	out := make([]rangeJSON, len(s.ranges))
	for i, r := range s.ranges {
		out[i] = r.toJSON()
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses a set from an array of ranges and re-normalizes.
func (s *VersionSet) UnmarshalJSON(data []byte) error {
	var raws []rangeJSON
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	ranges := make([]VersionRange, len(raws))
	for i, raw := range raws {
		r, err := rangeFromJSON(raw)
		if err != nil {
			return err
		}
		ranges[i] = r
	}
	*s = normalize(ranges)
	return nil
}
