package deadline

import (
	"errors"
	"testing"
	"time"
)

func TestWithTimeoutReturnsOpResultWhenFast(t *testing.T) {
	got, err := WithTimeout("fast-op", 50*time.Millisecond, func() (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("WithTimeout() error = %v, want nil", err)
	}
	if got != 42 {
		t.Errorf("WithTimeout() = %d, want 42", got)
	}
}

func TestWithTimeoutPropagatesOpError(t *testing.T) {
	wantErr := errors.New("boom")
	_, err := WithTimeout("erroring-op", 50*time.Millisecond, func() (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("WithTimeout() error = %v, want %v", err, wantErr)
	}
}

func TestWithTimeoutExpiresOnSlowOp(t *testing.T) {
	_, err := WithTimeout("slow-op", 10*time.Millisecond, func() (int, error) {
		time.Sleep(200 * time.Millisecond)
		return 1, nil
	})
	var timeoutErr *Timeout
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("WithTimeout() error = %v, want *Timeout", err)
	}
	if timeoutErr.Label != "slow-op" {
		t.Errorf("Timeout.Label = %q, want %q", timeoutErr.Label, "slow-op")
	}
	if timeoutErr.Seconds != 0.01 {
		t.Errorf("Timeout.Seconds = %v, want 0.01", timeoutErr.Seconds)
	}
}

func TestTimeoutErrorMessage(t *testing.T) {
	e := &Timeout{Label: "tap", Seconds: 1.50}
	want := "tap: timed out after 1.50s"
	if got := e.Error(); got != want {
		t.Errorf("Timeout.Error() = %q, want %q", got, want)
	}
}
