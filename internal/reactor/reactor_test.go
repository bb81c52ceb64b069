package reactor

import (
	"testing"
	"time"
)

func TestPostOrdering(t *testing.T) {
	r := New()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		r.Post(func() { got = append(got, i) })
	}
	r.Flush()
	for i, v := range got {
		if v != i {
			t.Fatalf("jobs ran out of order: %v", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("ran %d jobs, want 5", len(got))
	}
}

func TestJobsPostedFromJobsRunInOrder(t *testing.T) {
	r := New()
	var got []string
	r.Post(func() {
		got = append(got, "outer")
		r.Post(func() { got = append(got, "inner") })
	})
	r.Post(func() { got = append(got, "second") })
	r.Flush()

	want := []string{"outer", "second", "inner"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestQuitCode(t *testing.T) {
	r := New()
	r.Post(func() { r.Quit(1) })
	if code := r.Run(); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
}

func TestQuitFromAnotherGoroutine(t *testing.T) {
	r := New()
	go func() {
		time.Sleep(5 * time.Millisecond)
		r.Quit(3)
	}()
	if code := r.Run(); code != 3 {
		t.Fatalf("exit code %d, want 3", code)
	}
}

func TestTimerFires(t *testing.T) {
	r := New()
	tm := r.NewTimer()
	fired := make(chan struct{})
	tm.SetAbsolute(time.Now().Add(5*time.Millisecond), func() {
		close(fired)
		r.Quit(0)
	})
	done := make(chan int, 1)
	go func() { done <- r.Run() }()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("timer did not fire")
	}
	<-done
}

func TestTimerStopPreventsFire(t *testing.T) {
	r := New()
	tm := r.NewTimer()
	fired := false
	tm.SetAbsolute(time.Now().Add(5*time.Millisecond), func() { fired = true })
	tm.Stop()

	time.Sleep(20 * time.Millisecond)
	r.Flush()
	if fired {
		t.Fatalf("stopped timer fired")
	}
}

func TestTimerPastDeadlineFiresImmediately(t *testing.T) {
	r := New()
	tm := r.NewTimer()
	fired := false
	tm.SetAbsolute(time.Now().Add(-time.Second), func() { fired = true })

	time.Sleep(5 * time.Millisecond)
	r.Flush()
	if !fired {
		t.Fatalf("past-deadline timer did not fire")
	}
}

func TestTimerReplaceInvalidatesPending(t *testing.T) {
	r := New()
	tm := r.NewTimer()
	var got []string
	tm.SetAbsolute(time.Now().Add(5*time.Millisecond), func() { got = append(got, "first") })
	tm.SetAbsolute(time.Now().Add(10*time.Millisecond), func() { got = append(got, "second") })

	time.Sleep(30 * time.Millisecond)
	r.Flush()
	if len(got) != 1 || got[0] != "second" {
		t.Fatalf("fires %v, want only the replacement", got)
	}
}
