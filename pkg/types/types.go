package types

// Record is the pair extracted from one access-log line
type Record struct {
	Address string `json:"address"`
	Agent   string `json:"agent,omitempty"`
}

// StatKey identifies one aggregated row: a client address seen with an OS label
type StatKey struct {
	Address string `json:"address"`
	OS      string `json:"os"`
}

// Less orders keys by address, then by OS label, using plain string comparison
func (k StatKey) Less(other StatKey) bool {
	if k.Address != other.Address {
		return k.Address < other.Address
	}
	return k.OS < other.OS
}

// RunStats summarizes a single pass over an input file
type RunStats struct {
	Lines   int64 `json:"lines"`
	Parsed  int64 `json:"parsed"`
	Skipped int64 `json:"skipped"`
}
