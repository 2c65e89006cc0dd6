package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64  `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

func TestRoundTrip(t *testing.T) {
	codecs := map[string]Codec[row]{
		"bson": NewBsonCodec[row](),
		"json": NewJsonCodec[row](),
	}

	for tag, c := range codecs {
		c := c
		t.Run(tag, func(t *testing.T) {
			// arrange
			in := row{ID: 7, Name: "Coffee"}

			// act
			data, err := c.Encode(in)
			out, decErr := c.Decode(data)

			// assert
			require.NoError(t, err)
			require.NoError(t, decErr)
			assert.Equal(t, in, out)
			assert.Equal(t, tag, c.Tag())
		})
	}
}
