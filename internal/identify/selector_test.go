package identify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scan-coin/scan_coin/internal/coin"
	"github.com/scan-coin/scan_coin/internal/vision"
)

type stubIdentifier struct {
	result coin.Result
	err    error
	calls  int
}

func (s *stubIdentifier) Identify(_ context.Context, _ coin.Input) (coin.Result, error) {
	s.calls++
	return s.result, s.err
}

func TestMockIsDeterministic(t *testing.T) {
	mock := NewMock(0)
	ctx := context.Background()
	in := coin.Input{Obverse: coin.SideImage{ImageURI: "file:///tmp/obverse.jpg"}}

	first, err := mock.Identify(ctx, in)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := mock.Identify(ctx, in)
		if err != nil {
			t.Fatalf("identify: %v", err)
		}
		if again != first {
			t.Fatalf("expected stable result %+v, got %+v", first, again)
		}
	}
}

func TestMockCatalogMapping(t *testing.T) {
	mock := NewMock(0)
	ctx := context.Background()

	cases := []struct {
		in   coin.Input
		want string
	}{
		// The pick is (reference length + 17 when a reverse is present) % 3.
		{coin.Input{Obverse: coin.SideImage{ImageURI: "abc"}}, "United States"},
		{coin.Input{Obverse: coin.SideImage{ImageURI: "abcd"}}, "Canada"},
		{coin.Input{Obverse: coin.SideImage{ImageURI: "abcde"}}, "Eurozone"},
		{coin.Input{
			Obverse: coin.SideImage{ImageURI: "abc"},
			Reverse: &coin.SideImage{ImageURI: "xyz"},
		}, "Eurozone"},
		// Without a URI the payload length is used.
		{coin.Input{Obverse: coin.SideImage{ImageBase64: "QUJD"}}, "Canada"},
	}
	for _, tc := range cases {
		got, err := mock.Identify(ctx, tc.in)
		if err != nil {
			t.Fatalf("identify: %v", err)
		}
		if got.Country != tc.want {
			t.Fatalf("input %+v: expected %s, got %s", tc.in, tc.want, got.Country)
		}
	}
}

func TestMockIgnoresEmptyReverse(t *testing.T) {
	mock := NewMock(0)
	ctx := context.Background()
	a, _ := mock.Identify(ctx, coin.Input{Obverse: coin.SideImage{ImageURI: "abcd"}})
	b, _ := mock.Identify(ctx, coin.Input{Obverse: coin.SideImage{ImageURI: "abcd"}, Reverse: &coin.SideImage{}})
	if a != b {
		t.Fatalf("empty reverse must not change the pick: %+v vs %+v", a, b)
	}
}

func TestMockHonoursCancellation(t *testing.T) {
	mock := NewMock(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := mock.Identify(ctx, coin.Input{Obverse: coin.SideImage{ImageURI: "a"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSelectorDefaultsToMock(t *testing.T) {
	remote := &stubIdentifier{}
	sel, err := NewSelector("", remote, NewMock(0))
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if sel.Mode() != ModeMock {
		t.Fatalf("expected mock mode, got %s", sel.Mode())
	}
	if _, err := sel.Identify(context.Background(), coin.Input{Obverse: coin.SideImage{ImageURI: "abc"}}); err != nil {
		t.Fatalf("identify: %v", err)
	}
	if remote.calls != 0 {
		t.Fatalf("remote must not be called in mock mode")
	}
}

func TestSelectorRemotePropagatesErrors(t *testing.T) {
	upstream := &vision.TransportError{Provider: "Gemini", StatusCode: 429}
	remote := &stubIdentifier{err: upstream}
	sel, err := NewSelector("REMOTE", remote, nil)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	_, err = sel.Identify(context.Background(), coin.Input{Obverse: coin.SideImage{ImageBase64: "QUJD"}})
	if err != upstream {
		t.Fatalf("expected the remote error unchanged, got %v", err)
	}
	if remote.calls != 1 {
		t.Fatalf("expected one remote call, got %d", remote.calls)
	}
}

func TestSelectorRemoteRequiresBackend(t *testing.T) {
	if _, err := NewSelector(ModeRemote, nil, nil); err == nil {
		t.Fatalf("expected error without remote identifier")
	}
}
