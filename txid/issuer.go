package txid

import (
	"sync/atomic"
	"time"
)

type Issuer interface {
	Issue() ID
}

// AtomicIssuer issues ids with a lock-free serial counter; the epoch part is
// taken from the wall clock at issue time.
type AtomicIssuer struct {
	serial uint32
}

func NewAtomicIssuer() *AtomicIssuer {
	return &AtomicIssuer{}
}

func (iss *AtomicIssuer) Issue() ID {
	serial := atomic.AddUint32(&iss.serial, 1)
	return New(time.Now(), serial)
}
