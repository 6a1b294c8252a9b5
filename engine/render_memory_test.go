package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderMemory(t *testing.T) {
	rm := NewRenderMemory(time.Hour)

	assert.False(t, rm.Needed("spa.acme.io"))

	rm.MarkNeeded("spa.acme.io")
	assert.True(t, rm.Needed("spa.acme.io"))
	assert.False(t, rm.Needed("static.acme.io"))

	rm.Forget("spa.acme.io")
	assert.False(t, rm.Needed("spa.acme.io"))
}

func TestRenderMemoryExpiry(t *testing.T) {
	rm := NewRenderMemory(10 * time.Millisecond)
	rm.MarkNeeded("spa.acme.io")

	assert.True(t, rm.Needed("spa.acme.io"))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, rm.Needed("spa.acme.io"))
}
