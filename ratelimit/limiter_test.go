package ratelimit

import "testing"

func TestLimiterBudget(t *testing.T) {
	l := New(30)

	allowed := 0
	for i := 0; i < 40; i++ {
		if l.Allow("client-a") {
			allowed++
		}
	}
	// the burst covers the full per-minute budget; refill within the
	// loop is negligible
	if allowed < 30 || allowed > 31 {
		t.Errorf("allowed %d requests, want the 30-request budget", allowed)
	}
}

func TestLimiterPerClient(t *testing.T) {
	l := New(1)

	if !l.Allow("client-a") {
		t.Error("first request for client-a should pass")
	}
	if l.Allow("client-a") {
		t.Error("second request for client-a should be limited")
	}
	if !l.Allow("client-b") {
		t.Error("client-b has its own budget")
	}
}

func TestLimiterDisabled(t *testing.T) {
	l := New(0)
	for i := 0; i < 100; i++ {
		if !l.Allow("anyone") {
			t.Fatal("disabled limiter should allow everything")
		}
	}
}
