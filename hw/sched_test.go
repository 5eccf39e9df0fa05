package hw

import "testing"

func TestSchedulerOrder(t *testing.T) {
	s := newScheduler()
	s.schedule(actCPU, 30)
	s.schedule(actTimers, 10)
	s.schedule(actSerial, 20)

	wantPop := func(kind actionKind, deadline uint64) {
		t.Helper()
		k, dl := s.pop()
		if k != kind || dl != deadline {
			t.Fatalf("pop = (%d, %d), want (%d, %d)", k, dl, kind, deadline)
		}
	}

	wantPop(actTimers, 10)
	wantPop(actSerial, 20)
	wantPop(actCPU, 30)
	if _, _, ok := s.peek(); ok {
		t.Fatal("queue not empty")
	}
}

// Same deadline: Timer < DMA < ComLynx < Suzy < CPU.
func TestSchedulerTieBreak(t *testing.T) {
	s := newScheduler()
	s.schedule(actCPU, 100)
	s.schedule(actSuzy, 100)
	s.schedule(actVideoDMA, 100)
	s.schedule(actSerial, 100)
	s.schedule(actTimers, 100)

	want := []actionKind{actTimers, actVideoDMA, actSerial, actSuzy, actCPU}
	for _, k := range want {
		got, _ := s.pop()
		if got != k {
			t.Fatalf("pop = %d, want %d", got, k)
		}
	}
}

// Re-scheduling a kind replaces its entry, both directions.
func TestSchedulerReplace(t *testing.T) {
	s := newScheduler()
	s.schedule(actCPU, 100)
	s.schedule(actTimers, 50)

	s.schedule(actCPU, 10) // move earlier
	k, dl := s.pop()
	if k != actCPU || dl != 10 {
		t.Fatalf("pop = (%d, %d), want (actCPU, 10)", k, dl)
	}

	s.schedule(actTimers, 500) // move later
	k, dl = s.pop()
	if k != actTimers || dl != 500 {
		t.Fatalf("pop = (%d, %d), want (actTimers, 500)", k, dl)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := newScheduler()
	s.schedule(actCPU, 10)
	s.schedule(actTimers, 20)
	s.cancel(actCPU)

	if s.has(actCPU) {
		t.Fatal("cancelled entry still present")
	}
	k, _ := s.pop()
	if k != actTimers {
		t.Fatalf("pop = %d, want actTimers", k)
	}
	s.cancel(actSuzy) // cancelling an absent kind is a no-op
}
