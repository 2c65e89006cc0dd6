package txid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDRoundTrip(t *testing.T) {
	// arrange
	id := FromUint64(0x12345678_87654321)

	// act
	parsed, err := Parse(id.String())

	// assert
	assert.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.Equal(t, uint64(0x12345678_87654321), parsed.Uint64())
}

func TestIDOrdering(t *testing.T) {
	// arrange
	lhs := New(time.Unix(100, 0), 2)
	rhs := New(time.Unix(100, 0), 50)

	// act & assert
	assert.True(t, lhs.Less(rhs))
	assert.True(t, lhs.Less(lhs)) // Less is really "less or equal"
	assert.False(t, rhs.Less(lhs))
}

func TestAtomicIssuerDistinct(t *testing.T) {
	// arrange
	iss := NewAtomicIssuer()

	// act
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		seen[iss.Issue().Uint64()] = true
	}

	// assert
	assert.Len(t, seen, 1000)
}
