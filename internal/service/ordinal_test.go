package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSiblingPosition(t *testing.T) {
	siblings := []string{"a", "b", "c"}

	pos, err := ResolveSiblingPosition("a", siblings)
	assert.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = ResolveSiblingPosition("c", siblings)
	assert.NoError(t, err)
	assert.Equal(t, 3, pos)

	_, err = ResolveSiblingPosition("x", siblings)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ResolveSiblingPosition("a", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPartOrdinal(t *testing.T) {
	assert.Equal(t, "I", PartOrdinal(1))
	assert.Equal(t, "IV", PartOrdinal(4))
	assert.Equal(t, "IX", PartOrdinal(9))
	assert.Equal(t, "XIV", PartOrdinal(14))
	assert.Equal(t, "", PartOrdinal(0))
}

func TestSectionOrdinal(t *testing.T) {
	assert.Equal(t, "a", SectionOrdinal(1))
	assert.Equal(t, "z", SectionOrdinal(26))
	assert.Equal(t, "aa", SectionOrdinal(27))
	assert.Equal(t, "ab", SectionOrdinal(28))
	assert.Equal(t, "", SectionOrdinal(0))
}
