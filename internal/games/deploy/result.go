package deploy

import (
	"fmt"
	"hash/crc32"
	"strconv"
)

// ClientVersion is recorded in every result payload.
const ClientVersion = "1.0.0"

// Result is the payload emitted when a session ends. Field names are part
// of the leaderboard contract and must stay stable.
type Result struct {
	SessionID       string  `json:"sessionId"`
	Variant         string  `json:"variant"`
	Player          string  `json:"player"`
	Score           int     `json:"score"`
	Success         bool    `json:"success"`
	CompletedCycles int     `json:"completedCycles"`
	Mistakes        int     `json:"mistakes"`
	MaxCombo        float64 `json:"maxCombo"`
	DurationMs      int64   `json:"durationMs"`
	Seed            string  `json:"seed"`      // lowercase hex, no padding
	Timestamp       int64   `json:"timestamp"` // unix milliseconds
	ClientVersion   string  `json:"clientVersion"`
	Checksum        string  `json:"checksum"`
}

// SeedHex formats a seed the way results record it.
func SeedHex(seed uint32) string {
	return strconv.FormatUint(uint64(seed), 16)
}

// ParseSeed accepts a seed in result format (hex) or as a decimal number
// prefixed with "#".
func ParseSeed(s string) (uint32, error) {
	if len(s) > 1 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("deploy: bad seed %q: %w", s, err)
		}
		return uint32(v), nil
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("deploy: bad seed %q: %w", s, err)
	}
	return uint32(v), nil
}

// checksumInput is the exact string the checksum covers.
func (r Result) checksumInput() string {
	return fmt.Sprintf("%d|%d|%d|%d|%s|%s|%d",
		r.Score, r.Mistakes, r.DurationMs, r.CompletedCycles, r.Seed, r.ClientVersion, r.Timestamp)
}

// ComputeChecksum returns the CRC-32 of the result's key fields as
// unpadded lowercase hex.
func (r Result) ComputeChecksum() string {
	return strconv.FormatUint(uint64(crc32.ChecksumIEEE([]byte(r.checksumInput()))), 16)
}

// Sign fills in the checksum.
func (r Result) Sign() Result {
	r.Checksum = r.ComputeChecksum()
	return r
}

// Verify reports whether the checksum matches the fields.
func (r Result) Verify() bool {
	return r.Checksum != "" && r.Checksum == r.ComputeChecksum()
}
