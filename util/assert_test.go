//go:build !release

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssert(t *testing.T) {
	assert.NotPanics(t, func() { Assert(true, "unreachable") })
	assert.PanicsWithValue(t, "boom", func() { Assert(false, "boom") })
}
