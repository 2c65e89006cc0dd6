// Provides types for binary value representation used in storage keys.
package bvalue

import "strconv"

// binary value
type Value []byte

func (v Value) String() string {
	return string(v)
}

func FromString[S ~string](v S) Value {
	return []byte(v)
}

func FromInt[I ~int](v I) Value {
	return FromInt64(int64(v))
}

func FromInt64(v int64) Value {
	return Value(strconv.FormatInt(v, 10))
}

// ToInt64 parses the value back into the integer it was built from.
func (v Value) ToInt64() (int64, error) {
	return strconv.ParseInt(string(v), 10, 64)
}
