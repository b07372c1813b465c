package utils

import (
	"testing"
	"time"
)

func TestTimer(t *testing.T) {
	timer := NewTimer()
	if timer.Duration() != 0 {
		t.Errorf("Duration() before Stop = %v, want 0", timer.Duration())
	}

	time.Sleep(time.Millisecond)
	first := timer.Stop()
	if first <= 0 {
		t.Errorf("Stop() = %v, want positive", first)
	}
	if timer.Duration() != first {
		t.Errorf("Duration() = %v, want %v", timer.Duration(), first)
	}

	time.Sleep(time.Millisecond)
	if second := timer.Stop(); second <= first {
		t.Errorf("second Stop() = %v, want more than %v", second, first)
	}
}
