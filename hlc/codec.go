package hlc

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/c0deZ3R0/go-hlc-kit/errors"
)

// encodedFieldCount is the exact number of pipe-delimited fields in the
// canonical text form.
const encodedFieldCount = 3

// Decode strictly parses the canonical text form produced by
// Timestamp.Encode.
//
// Returns a *errors.ParseError if:
// - the input does not split on '|' into exactly 3 fields
// - the node id field is empty
// - the date field is not ISO-8601 or falls outside [0, MaxWallTime]
// - the counter field is not a base-10 integer in [0, MaxCounter]
func Decode(s string) (Timestamp, error) {
	parts := strings.Split(s, "|")
	if len(parts) != encodedFieldCount {
		return Timestamp{}, errors.NewParseError(s, errors.ReasonFieldCount, nil)
	}

	nodeID := parts[2]
	if nodeID == "" {
		return Timestamp{}, errors.NewParseError(s, errors.ReasonEmptyNodeID, nil)
	}

	wall, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return Timestamp{}, errors.NewParseError(s, errors.ReasonBadWallTime, err)
	}
	wallMs := wall.UnixMilli()
	if wallMs < 0 || wallMs > MaxWallTime {
		return Timestamp{}, errors.NewParseError(s, errors.ReasonBadWallTime, nil)
	}

	counter, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Timestamp{}, errors.NewParseError(s, errors.ReasonBadCounter, err)
	}
	if counter < 0 || counter > MaxCounter {
		return Timestamp{}, errors.NewParseError(s, errors.ReasonBadCounter, nil)
	}

	return NewTimestamp(wallMs, counter, nodeID), nil
}

// DecodeLenient parses the canonical text form, reporting absence instead
// of an error for malformed input. Useful when validating untrusted
// strings where the caller only cares whether the input was a timestamp.
func DecodeLenient(s string) (Timestamp, bool) {
	t, err := Decode(s)
	if err != nil {
		return Timestamp{}, false
	}
	return t, true
}

// WireTimestamp is a JSON envelope for moving encoded timestamps over
// JSON transports. The pipe-delimited text form stays the canonical
// bit-exact format; the envelope just pairs it with the producing node
// for convenience.
type WireTimestamp struct {
	Node string `json:"node"`
	TS   string `json:"ts"`
}

// MarshalWire wraps a timestamp in its wire envelope.
func MarshalWire(t Timestamp) WireTimestamp {
	return WireTimestamp{Node: t.NodeID(), TS: t.Encode()}
}

// UnmarshalWire unwraps a wire envelope, strictly decoding the embedded
// encoding. The envelope's Node field is informational; the node id
// inside the encoding is authoritative.
func UnmarshalWire(w WireTimestamp) (Timestamp, error) {
	return Decode(w.TS)
}

// UnmarshalWireJSON parses a raw JSON envelope and strictly decodes the
// embedded timestamp.
func UnmarshalWireJSON(data []byte) (Timestamp, error) {
	var w WireTimestamp
	if err := json.Unmarshal(data, &w); err != nil {
		return Timestamp{}, errors.NewParseError(string(data), errors.ReasonBadEnvelope, err)
	}
	return UnmarshalWire(w)
}
