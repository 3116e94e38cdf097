// Package notify implements the panel's toast notifications.
//
// Toasts stack without limit or deduplication. Each one expires a fixed
// time after it is pushed and can be dismissed earlier by id.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a toast stays visible
const DefaultTTL = 5 * time.Second

// Severity classifies a toast
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

var colors = map[Severity]string{
	Success: "bg-green-100 border-green-400 text-green-700",
	Error:   "bg-red-100 border-red-400 text-red-700",
	Warning: "bg-yellow-100 border-yellow-400 text-yellow-700",
	Info:    "bg-blue-100 border-blue-400 text-blue-700",
}

var icons = map[Severity]string{
	Success: "fas fa-check-circle",
	Error:   "fas fa-exclamation-circle",
	Warning: "fas fa-exclamation-triangle",
	Info:    "fas fa-info-circle",
}

// Color returns the CSS classes for the severity
func (s Severity) Color() string {
	if c, ok := colors[s]; ok {
		return c
	}
	return colors[Info]
}

// Icon returns the icon classes for the severity
func (s Severity) Icon() string {
	if i, ok := icons[s]; ok {
		return i
	}
	return icons[Info]
}

// Toast is one notification
type Toast struct {
	ID        string
	Severity  Severity
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notifier is what the controller needs from a toast surface
type Notifier interface {
	Notify(sev Severity, message string) Toast
}

// Center holds the toasts of one panel session
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	toasts []Toast
}

// Option configures a Center
type Option func(*Center)

// WithTTL overrides the auto-dismiss delay
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		c.now = now
	}
}

// NewCenter creates an empty toast center
func NewCenter(opts ...Option) *Center {
	c := &Center{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify pushes a toast on top of the stack
func (c *Center) Notify(sev Severity, message string) Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	t := Toast{
		ID:        uuid.NewString(),
		Severity:  sev,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.toasts = append(c.toasts, t)
	return t
}

// Dismiss removes a toast before it expires; unknown ids are ignored
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Active prunes expired toasts and returns the rest, oldest first
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
	return append([]Toast(nil), kept...)
}
