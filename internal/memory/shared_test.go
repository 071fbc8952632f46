package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSharedMemoryGetString(t *testing.T) {
	sm := NewSharedMemory("brainstorm-1")
	sm.Set("whitehat_findings", "Remote work raised output 4%.")
	sm.Set("branch_count", 5)

	tests := []struct {
		key  string
		want string
	}{
		{"whitehat_findings", "Remote work raised output 4%."},
		{"branch_count", "5"},
		{"black_hat_plan", ""},
	}
	for _, tt := range tests {
		if got := sm.GetString(tt.key); got != tt.want {
			t.Errorf("GetString(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}

	if _, ok := sm.Get("black_hat_plan"); ok {
		t.Error("unset key reported present")
	}
	if sm.GetSessionID() != "brainstorm-1" {
		t.Errorf("session = %q", sm.GetSessionID())
	}
}

func TestSharedMemoryKeysSorted(t *testing.T) {
	sm := NewSharedMemory("s")
	var wg sync.WaitGroup
	hats := []string{"yellow_hat_plan", "black_hat_plan", "whitehat_findings", "red_hat_feelings", "green_hat_ideas"}
	for _, key := range hats {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			sm.Set(key, "answer")
		}(key)
	}
	wg.Wait()

	want := []string{"black_hat_plan", "green_hat_ideas", "red_hat_feelings", "whitehat_findings", "yellow_hat_plan"}
	if diff := cmp.Diff(want, sm.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestSharedMemoryWaitForContext(t *testing.T) {
	t.Run("already published", func(t *testing.T) {
		sm := NewSharedMemory("s")
		sm.Set("red_hat_feelings", "uneasy")
		got, err := sm.WaitForContext(context.Background(), "red_hat_feelings")
		if err != nil || got != "uneasy" {
			t.Errorf("WaitForContext = (%v, %v)", got, err)
		}
	})

	t.Run("published later", func(t *testing.T) {
		sm := NewSharedMemory("s")
		go func() {
			time.Sleep(20 * time.Millisecond)
			sm.Set("unrelated", "noise")
			sm.Set("green_hat_ideas", "pilot in one team")
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		got, err := sm.WaitForContext(ctx, "green_hat_ideas")
		if err != nil || got != "pilot in one team" {
			t.Errorf("WaitForContext = (%v, %v)", got, err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		sm := NewSharedMemory("s")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, err := sm.WaitForContext(ctx, "never")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("err = %v, want deadline exceeded", err)
		}
	})
}

func TestSharedMemoryManyWaiters(t *testing.T) {
	sm := NewSharedMemory("s")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err := sm.WaitForContext(ctx, "whitehat_findings")
			if err != nil || val != "facts" {
				t.Errorf("waiter got (%v, %v)", val, err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	sm.Set("other", "noise")
	sm.Set("whitehat_findings", "facts")
	wg.Wait()
}
