package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestPolicyDelay(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{40, time.Second},
	}

	for _, test := range tests {
		if got := p.Delay(test.attempt, nil); got != test.want {
			t.Errorf("Delay(%d) = %v, want %v", test.attempt, got, test.want)
		}
	}
}

func TestPolicyDelayJitterStaysInRange(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 3, Jitter: true}

	for attempt := 0; attempt < 5; attempt++ {
		ceiling := Policy{BaseDelay: p.BaseDelay, MaxDelay: p.MaxDelay, Multiplier: p.Multiplier}.Delay(attempt, nil)
		for i := 0; i < 50; i++ {
			got := p.Delay(attempt, nil)
			if got < ceiling/2 || got > ceiling {
				t.Fatalf("Delay(%d) = %v, want within [%v, %v]", attempt, got, ceiling/2, ceiling)
			}
		}
	}
}

func TestPolicyDelayHonorsRetryAfter(t *testing.T) {
	p := Policy{BaseDelay: time.Millisecond, MaxDelay: 5 * time.Second, Multiplier: 2}

	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")
	if got := p.Delay(0, resp); got != 3*time.Second {
		t.Errorf("expected Retry-After delay of 3s, got %v", got)
	}

	resp.Header.Set("Retry-After", "30")
	if got := p.Delay(0, resp); got != 5*time.Second {
		t.Errorf("expected Retry-After capped at 5s, got %v", got)
	}

	resp.Header.Set("Retry-After", "soon")
	if got := p.Delay(1, resp); got != 2*time.Millisecond {
		t.Errorf("expected exponential delay for unparsable Retry-After, got %v", got)
	}
}

func TestPolicyShouldRetry(t *testing.T) {
	p := DefaultPolicy()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		resp    *http.Response
		err     error
		want    bool
		wantErr bool
	}{
		{"rate limited", context.Background(), &http.Response{StatusCode: http.StatusTooManyRequests}, nil, true, false},
		{"ok", context.Background(), &http.Response{StatusCode: http.StatusOK}, nil, false, false},
		{"server error", context.Background(), &http.Response{StatusCode: http.StatusInternalServerError}, nil, false, false},
		{"unauthorized", context.Background(), &http.Response{StatusCode: http.StatusUnauthorized}, nil, false, false},
		{"transport error", context.Background(), nil, errors.New("connection refused"), false, false},
		{"cancelled", cancelled, &http.Response{StatusCode: http.StatusTooManyRequests}, nil, false, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := p.ShouldRetry(test.ctx, test.resp, test.err)
			if got != test.want {
				t.Errorf("expected retry=%v, got %v", test.want, got)
			}
			if (err != nil) != test.wantErr {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPolicyRetries(t *testing.T) {
	if got := (Policy{MaxAttempts: 1}).Retries(); got != 0 {
		t.Errorf("expected 0 retries for a single attempt, got %d", got)
	}
	if got := (Policy{MaxAttempts: 5}).Retries(); got != 4 {
		t.Errorf("expected 4 retries, got %d", got)
	}
	if got := (Policy{}).Retries(); got <= 1000 {
		t.Errorf("expected effectively unbounded retries, got %d", got)
	}
}
