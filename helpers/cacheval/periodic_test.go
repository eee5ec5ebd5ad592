package cacheval

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicSeed(t *testing.T) {
	t.Parallel()

	seeds := 0
	c := NewPeriodic(time.Second, func() string { seeds++; return "seed" })
	assert.Equal(t, 1, seeds)
	assert.Equal(t, "seed", c.Get())
	assert.True(t, c.Due(time.Now()), "first refresh must be due immediately")

	empty := NewPeriodic[int](time.Second, nil)
	assert.Equal(t, 0, empty.Get())
}

func TestPeriodicRefreshOncePerInterval(t *testing.T) {
	t.Parallel()

	const interval = 5 * time.Second
	calls := 0
	probe := func() int { calls++; return calls * 10 }
	c := NewPeriodic(interval, func() int { return -1 })
	t0 := time.Unix(1700000000, 0)

	v1 := c.RefreshIfDue(t0, probe)
	v2 := c.RefreshIfDue(t0.Add(interval-time.Millisecond), probe)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 10, v1)
	assert.Equal(t, v1, v2)

	v3 := c.RefreshIfDue(t0.Add(interval), probe)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 20, v3)
	assert.Equal(t, 20, c.Get())
}

func TestPeriodicBeginSet(t *testing.T) {
	t.Parallel()

	const interval = time.Second
	c := NewPeriodic(interval, func() string { return "unknown" })
	t0 := time.Unix(1700000000, 0)

	assert.True(t, c.Begin(t0))
	assert.False(t, c.Begin(t0.Add(100*time.Millisecond)), "interval already claimed")
	assert.Equal(t, "unknown", c.Get(), "value unchanged until Set")
	c.Set("full")
	assert.Equal(t, "full", c.Get())
	assert.False(t, c.Due(t0.Add(999*time.Millisecond)))
	assert.True(t, c.Due(t0.Add(interval)))

	c.Invalidate()
	assert.True(t, c.Due(t0.Add(time.Millisecond)))
}

func TestPeriodicStress(t *testing.T) {
	const concurrency = 20
	const N = 200

	c := NewPeriodic(time.Millisecond, func() int { return 0 })
	wg := sync.WaitGroup{}
	wg.Add(concurrency)
	reader := func() {
		defer wg.Done()
		max := 0
		for j := 1; j <= N; j++ {
			v := c.Get()
			if v < max {
				t.Error("unexpected decrease")
			}
			max = v
		}
	}
	for i := 1; i <= concurrency; i++ {
		go reader()
	}
	now := time.Unix(1700000000, 0)
	for j := 1; j <= N; j++ {
		now = now.Add(time.Millisecond)
		prev := c.Get()
		c.RefreshIfDue(now, func() int { return prev + 1 })
	}
	wg.Wait()
	assert.Equal(t, N, c.Get())
}
