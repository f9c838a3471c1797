package bench

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/aggbench/lib/codec"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("bench")

// Value is the constraint on benchmarked values: a decoded value must be
// comparable with the original.
type Value[T any] interface {
	// Verify returns nil if other is structurally equal to the receiver.
	Verify(other T) error
}

// State is a state of a single measurement.
type State uint8

const (
	StateSerializing State = iota
	StateDeserializing
	StateVerifying
	StateDone
	StateSerializeFailed
	StateDeserializeFailed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateSerializing:
		return "Serializing"
	case StateDeserializing:
		return "Deserializing"
	case StateVerifying:
		return "Verifying"
	case StateDone:
		return "Done"
	case StateSerializeFailed:
		return "SerializeFailed"
	case StateDeserializeFailed:
		return "DeserializeFailed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Status strings of a Row.
const (
	StatusOk       = "Ok"
	StatusMismatch = "Cmp Mismatch"
)

// Row is the result of one measurement.
type Row struct {
	// Codec is the name of the codec
	Codec string
	// Status is "Ok", "Cmp Mismatch", "Ser Err: <msg>" or "Deser Err: <msg>"
	Status string
	// State is the final state, StateDone unless a step failed
	State State
	// Err is the EncodeError, DecodeError or MismatchError, nil if ok
	Err error

	SerializedSize int
	SerializeNs    int64
	DeserializeNs  int64
	RoundtripNs    int64
}

// Ok reports whether the value survived the round trip.
func (r Row) Ok() bool {
	return r.State == StateDone && r.Err == nil
}

// Run measures one round trip of value through c:
//
//	Serializing -> Deserializing -> Verifying -> Done
//
// A serialize failure ends in StateSerializeFailed with all timings zeroed. A
// deserialize failure ends in StateDeserializeFailed and keeps the serialize
// timing and size. A failed verification still reports all timings. Run never
// panics: a panicking codec is reported as a failure of the current step.
func Run[T Value[T], P any](value T, c codec.ICodec[T, P]) Row {
	row := Row{Codec: c.Name(), State: StateSerializing}

	log.Debugf("%s: %s", row.Codec, row.State)
	start := time.Now()
	size, payload, err := serialize(c, value)
	elapsed := time.Since(start)
	if err != nil {
		row.State = StateSerializeFailed
		row.Status = "Ser Err: " + err.Error()
		row.Err = err
		log.Warningf("%s: %s", row.Codec, row.Status)
		return row
	}
	row.SerializedSize = size
	row.SerializeNs = elapsed.Nanoseconds()

	row.State = StateDeserializing
	log.Debugf("%s: %s", row.Codec, row.State)
	start = time.Now()
	decoded, err := deserialize(c, payload)
	elapsed = time.Since(start)
	if err != nil {
		row.State = StateDeserializeFailed
		row.Status = "Deser Err: " + err.Error()
		row.Err = err
		log.Warningf("%s: %s", row.Codec, row.Status)
		return row
	}
	row.DeserializeNs = elapsed.Nanoseconds()
	row.RoundtripNs = row.SerializeNs + row.DeserializeNs

	row.State = StateVerifying
	log.Debugf("%s: %s", row.Codec, row.State)
	if err := value.Verify(decoded); err != nil {
		row.Status = StatusMismatch
		row.Err = err
		log.Warningf("%s: %s: %v", row.Codec, row.Status, err)
	} else {
		row.Status = StatusOk
	}
	row.State = StateDone
	log.Debugf("%s: %s (%s)", row.Codec, row.State, row.Status)
	return row
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// serialize calls c.Serialize and converts a panic into an EncodeError
func serialize[T any, P any](c codec.ICodec[T, P], value T) (size int, payload P, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = codec.NewEncodeError(c.Name(), panicError(r))
		}
	}()
	return c.Serialize(value)
}

// deserialize calls c.Deserialize and converts a panic into a DecodeError
func deserialize[T any, P any](c codec.ICodec[T, P], payload P) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = codec.NewDecodeError(c.Name(), panicError(r))
		}
	}()
	return c.Deserialize(payload)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
