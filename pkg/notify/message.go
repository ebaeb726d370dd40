package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/vnykmshr/countdown/pkg/countdown"
)

// Encoding selects the wire format of published messages.
type Encoding int

const (
	// EncodingJSON encodes messages as JSON objects.
	EncodingJSON Encoding = iota
	// EncodingCBOR encodes messages as CBOR maps.
	EncodingCBOR
)

func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingCBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// ParseEncoding maps "json" or "cbor" to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "json":
		return EncodingJSON, nil
	case "cbor":
		return EncodingCBOR, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", s)
	}
}

// Message is the published form of a countdown event.
type Message struct {
	TimerID         string    `json:"timer_id" cbor:"timer_id"`
	Event           string    `json:"event" cbor:"event"`
	State           string    `json:"state" cbor:"state"`
	Remaining       int       `json:"remaining" cbor:"remaining"`
	InitialDuration int       `json:"initial_duration" cbor:"initial_duration"`
	At              time.Time `json:"at" cbor:"at"`
}

// NewMessage converts a countdown event.
func NewMessage(e countdown.Event) Message {
	return Message{
		TimerID:         e.Info.ID,
		Event:           string(e.Kind),
		State:           e.Info.State.String(),
		Remaining:       e.Info.Remaining,
		InitialDuration: e.Info.InitialDuration,
		At:              e.At,
	}
}

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	cborEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create notify CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	cborDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create notify CBOR decoder mode: %v", err))
	}
}

// Encode serializes m in the given encoding.
func Encode(m Message, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingJSON:
		return json.Marshal(m)
	case EncodingCBOR:
		return cborEncMode.Marshal(m)
	default:
		return nil, fmt.Errorf("unknown encoding %d", int(enc))
	}
}

// Decode parses a payload produced by Encode.
func Decode(data []byte, enc Encoding) (Message, error) {
	var m Message
	var err error
	switch enc {
	case EncodingJSON:
		err = json.Unmarshal(data, &m)
	case EncodingCBOR:
		err = cborDecMode.Unmarshal(data, &m)
	default:
		err = fmt.Errorf("unknown encoding %d", int(enc))
	}
	if err != nil {
		return Message{}, err
	}
	return m, nil
}
