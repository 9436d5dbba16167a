package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Identity string `validate:"required"`
	Text     string `validate:"max=5"`
}

func TestStruct_OK(t *testing.T) {
	assert.NoError(t, Struct(sample{Identity: "u1", Text: "hi"}))
}

func TestStruct_ListsEveryField(t *testing.T) {
	err := Struct(sample{Text: "too long"})
	assert.EqualError(t, err, "field 'Identity' failed 'required'; field 'Text' failed 'max=5'")
}
