package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var errUnavailable = errors.New("service unavailable")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(clock *fakeClock) *CircuitBreaker {
	return NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		Now: clock.Now,
	})
}

func fail() error    { return errUnavailable }
func succeed() error { return nil }

// TestCircuitBreaker_ClosedState 成功请求不改变状态
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := newTestBreaker(&fakeClock{now: time.Now()})

	for i := 0; i < 10; i++ {
		if err := cb.Execute(succeed); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 连续失败后快速失败，不调用实际函数
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := newTestBreaker(&fakeClock{now: time.Now()})

	for i := 0; i < 3; i++ {
		if err := cb.Execute(fail); !errors.Is(err, errUnavailable) {
			t.Fatalf("期望返回业务错误，实际%v", err)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_HalfOpenRecover 超时后探测成功恢复为CLOSED
func TestCircuitBreaker_HalfOpenRecover(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(31 * time.Second)

	if cb.State() != StateHalfOpen {
		t.Fatalf("期望状态为HALF_OPEN，实际%s", cb.State())
	}
	if err := cb.Execute(succeed); err != nil {
		t.Fatalf("探测请求失败: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenFail 探测失败回到OPEN
func TestCircuitBreaker_HalfOpenFail(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(31 * time.Second)

	_ = cb.Execute(fail)
	if cb.State() != StateOpen {
		t.Errorf("期望状态为OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_IntervalReset 统计窗口到期后清零计数
func TestCircuitBreaker_IntervalReset(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newTestBreaker(clock)

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	clock.Advance(11 * time.Second)
	_ = cb.Execute(fail)

	if cb.State() != StateClosed {
		t.Errorf("窗口重置后不应熔断，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.ConsecutiveFailures != 1 {
		t.Errorf("期望连续失败1次，实际%d次", counts.ConsecutiveFailures)
	}
}

// TestCircuitBreaker_IsSuccessful 调用方错误不计入失败
func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errBadRequest := errors.New("bad request")
	cb := NewCircuitBreaker("test", Config{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errBadRequest)
		},
	})

	if err := cb.Execute(func() error { return errBadRequest }); !errors.Is(err, errBadRequest) {
		t.Fatalf("期望原样返回错误，实际%v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_StateChangeCallback 状态切换触发回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newTestBreaker(clock)

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(31 * time.Second)
	_ = cb.Execute(succeed)

	want := []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}
	if len(transitions) != len(want) {
		t.Fatalf("期望%v，实际%v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("第%d次切换期望%s，实际%s", i, want[i], transitions[i])
		}
	}
}

// TestCircuitBreaker_Concurrent 并发执行不产生数据竞争
func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(succeed)
		}()
	}
	wg.Wait()

	if counts := cb.Counts(); counts.TotalSuccesses != 50 {
		t.Errorf("期望成功50次，实际%d次", counts.TotalSuccesses)
	}
}
