package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID    int64  `bson:"id"`
	Name  string `bson:"name"`
	Desc  string `bson:"description,omitempty"`
	Score float64
}

func TestFieldString(t *testing.T) {
	// arrange
	r := row{ID: 7, Name: "Coffee", Desc: "hot", Score: 1.5}

	// act & assert
	name, ok := FieldString(r, "bson", "name")
	assert.True(t, ok)
	assert.Equal(t, "Coffee", name)

	id, ok := FieldString(r, "bson", "id")
	assert.True(t, ok)
	assert.Equal(t, "7", id)

	// tag options are stripped
	desc, ok := FieldString(r, "bson", "description")
	assert.True(t, ok)
	assert.Equal(t, "hot", desc)

	// untagged and unindexable fields are not found
	_, ok = FieldString(r, "bson", "score")
	assert.False(t, ok)
}
