package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestCenter_AutoDismiss(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCenter(WithClock(clock.Now))

	c.Notify(Success, "Login realizado com sucesso!")
	clock.Advance(4 * time.Second)
	c.Notify(Info, "Logout realizado com sucesso!")

	require.Len(t, c.Active(), 2)

	clock.Advance(time.Second)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Logout realizado com sucesso!", active[0].Message)

	clock.Advance(4 * time.Second)
	assert.Empty(t, c.Active())
}

func TestCenter_StacksWithoutDeduplication(t *testing.T) {
	c := NewCenter()
	for i := 0; i < 50; i++ {
		c.Notify(Error, "Erro de conexão ao salvar")
	}

	active := c.Active()
	assert.Len(t, active, 50)
	assert.NotEqual(t, active[0].ID, active[1].ID)
}

func TestCenter_Dismiss(t *testing.T) {
	c := NewCenter()
	first := c.Notify(Warning, "a")
	second := c.Notify(Warning, "b")

	assert.True(t, c.Dismiss(first.ID))
	assert.False(t, c.Dismiss(first.ID))
	assert.False(t, c.Dismiss("unknown"))

	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
}

func TestCenter_WithTTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := NewCenter(WithClock(clock.Now), WithTTL(time.Second), WithTTL(0))

	toast := c.Notify(Info, "x")
	assert.Equal(t, time.Second, toast.ExpiresAt.Sub(toast.CreatedAt))
}

func TestSeverity_Mappings(t *testing.T) {
	assert.Equal(t, "fas fa-check-circle", Success.Icon())
	assert.Contains(t, Error.Color(), "bg-red-100")
	assert.Contains(t, Warning.Color(), "yellow")
	assert.Equal(t, "fas fa-info-circle", Info.Icon())
	assert.Equal(t, Info.Color(), Severity("bogus").Color())
}
