package mocks

import (
	"time"

	"github.com/storetycoon/backend/internal/dependencies/clock"
)

// MockClock is a Clock frozen at CurrentTime; tests move it explicitly
type MockClock struct {
	CurrentTime time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock frozen at t
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the frozen time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the frozen time forward by d
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set jumps the frozen time to t
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}
