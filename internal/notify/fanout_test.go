package notify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type stubChannel struct {
	err   error
	calls int
}

func (s *stubChannel) Send(_ context.Context, _, _, _ string) error {
	s.calls++
	return s.err
}

func TestFanout_OneDeliveryIsSuccess(t *testing.T) {
	broken := &stubChannel{err: errors.New("boom")}
	working := &stubChannel{}
	f := NewFanout(zap.NewNop(), broken, working)

	if err := f.Send(context.Background(), "u1", "t", "b"); err != nil {
		t.Fatalf("want success when any channel delivers, got %v", err)
	}
	if broken.calls != 1 || working.calls != 1 {
		t.Fatalf("all channels should be attempted: %d, %d", broken.calls, working.calls)
	}
}

func TestFanout_NoChannelConfigured(t *testing.T) {
	f := NewFanout(zap.NewNop(), &stubChannel{err: ErrNoChannel})
	if err := f.Send(context.Background(), "u1", "t", "b"); !errors.Is(err, ErrNoChannel) {
		t.Fatalf("want ErrNoChannel, got %v", err)
	}
}

func TestFanout_AllFailed(t *testing.T) {
	boom := errors.New("boom")
	f := NewFanout(zap.NewNop(), &stubChannel{err: boom}, &stubChannel{err: ErrNoChannel})
	err := f.Send(context.Background(), "u1", "t", "b")
	if !errors.Is(err, boom) {
		t.Fatalf("want real failure surfaced, got %v", err)
	}
	if errors.Is(err, ErrNoChannel) {
		t.Fatal("unconfigured channel must not mask the real failure")
	}
}
