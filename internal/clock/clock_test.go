package clock

import (
	"testing"
	"time"
)

func TestManualAdvanceFiresInOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	var got []int
	m.AfterFunc(20*time.Millisecond, func() { got = append(got, 2) })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, 1) })
	m.AfterFunc(50*time.Millisecond, func() { got = append(got, 3) })

	m.Advance(30 * time.Millisecond)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("fired = %v, want [1 2]", got)
	}
	if m.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", m.Pending())
	}
}

func TestManualStop(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	fired := false
	timer := m.AfterFunc(time.Millisecond, func() { fired = true })
	if !timer.Stop() {
		t.Error("Stop() = false on a pending timer")
	}
	if timer.Stop() {
		t.Error("second Stop() = true, want false")
	}

	m.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestManualRescheduleInsideWindow(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			m.AfterFunc(10*time.Millisecond, tick)
		}
	}
	m.AfterFunc(10*time.Millisecond, tick)

	m.Advance(100 * time.Millisecond)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
