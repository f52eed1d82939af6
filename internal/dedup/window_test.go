package dedup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_ShouldProcess(t *testing.T) {
	w := New(10)

	assert.True(t, w.ShouldProcess("msg-1", Inbound))
	assert.False(t, w.ShouldProcess("msg-1", Inbound), "replay must be suppressed")
	assert.True(t, w.ShouldProcess("msg-2", Inbound))
	assert.Equal(t, 2, w.Len())
}

func TestWindow_EmptyIDAlwaysProcessed(t *testing.T) {
	w := New(10)

	assert.True(t, w.ShouldProcess("", Inbound))
	assert.True(t, w.ShouldProcess("", Inbound))
	assert.Equal(t, 0, w.Len())
}

func TestWindow_OutboundIDSuppressesEcho(t *testing.T) {
	w := New(10)

	w.ShouldProcess("SM123", Outbound)
	assert.False(t, w.ShouldProcess("SM123", Inbound))
}

func TestWindow_EvictsOldestFirst(t *testing.T) {
	const capacity = 5
	w := New(capacity)

	for i := 0; i <= capacity; i++ {
		assert.True(t, w.ShouldProcess(fmt.Sprintf("id-%d", i), Inbound))
	}

	assert.Equal(t, capacity, w.Len())
	assert.False(t, w.Contains("id-0"), "oldest id must be evicted")
	for i := 1; i <= capacity; i++ {
		assert.True(t, w.Contains(fmt.Sprintf("id-%d", i)))
	}

	// The evicted id is treated as new again.
	assert.True(t, w.ShouldProcess("id-0", Inbound))
	assert.False(t, w.Contains("id-1"))
}

func TestWindow_EvictionIgnoresLookups(t *testing.T) {
	w := New(3)
	w.ShouldProcess("a", Inbound)
	w.ShouldProcess("b", Inbound)
	w.ShouldProcess("c", Inbound)

	// Repeated hits on "a" do not refresh it.
	for i := 0; i < 5; i++ {
		assert.False(t, w.ShouldProcess("a", Inbound))
	}
	w.ShouldProcess("d", Inbound)

	assert.False(t, w.Contains("a"))
	assert.True(t, w.Contains("b"))
	assert.True(t, w.Contains("d"))
}

func TestNew_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
	assert.Equal(t, 7, New(7).Capacity())
}
