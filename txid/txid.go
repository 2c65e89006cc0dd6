// Package txid provides ordered transaction identifiers. An ID is an epoch
// second paired with a serial counter, so ids issued by one process are
// strictly ordered even within the same second.
package txid

import (
	"strconv"
	"time"
)

// An ID that represents one particular transaction. Ordered, and can be
// compared for order using [ID.Less]. Zero value is a valid ID that precedes
// every issued one.
type ID struct {
	epoch  uint32
	serial uint32 // allowed to wrap
}

func New(t time.Time, serial uint32) ID {
	return ID{epoch: uint32(t.Unix()), serial: serial}
}

func (id ID) Uint64() uint64 {
	return uint64(id.epoch)<<32 + uint64(id.serial)
}

func (id ID) Less(rhs ID) bool {
	return id.Uint64() <= rhs.Uint64()
}

func (id ID) String() string {
	return strconv.FormatUint(id.Uint64(), 16)
}

func FromUint64(n uint64) ID {
	return ID{epoch: uint32(n >> 32), serial: uint32(n)}
}

func Parse(s string) (ID, error) {
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return ID{}, err
	}
	return FromUint64(n), nil
}
