package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowsUpToMax(t *testing.T) {
	l := New(3, time.Hour)

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.Equal(t, 0, l.Remaining("1.2.3.4"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(1, time.Hour)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestLimiter_WindowExpiryResetsCount(t *testing.T) {
	l := New(2, time.Hour)
	current := time.Unix(0, 0)
	l.now = func() time.Time { return current }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	current = current.Add(time.Hour + time.Second)
	assert.Equal(t, 2, l.Remaining("a"))
	assert.True(t, l.Allow("a"))
}
