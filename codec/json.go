package codec

import "encoding/json"

// NewJsonCodec serializes rows as JSON and reads field names from the
// "json" tag namespace. Handy when the stored values should stay
// human-readable, e.g. for tooling that inspects the backend directly.
func NewJsonCodec[T any]() Codec[T] {
	return Codec[T]{
		encode: func(value T) ([]byte, error) {
			return json.Marshal(value)
		},
		decode: func(data []byte) (T, error) {
			var v T
			err := json.Unmarshal(data, &v)
			return v, err
		},
		tag: "json",
	}
}
