package circuit_breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()
	var (
		errBackend = errors.New("502 Bad Gateway")
		ok         = func() error { return nil }
		failing    = func() error { return errBackend }
	)

	tests := []struct {
		name      string
		calls     []func() error
		advance   time.Duration
		probe     func() error
		wantState Status
		wantErr   error
	}{
		{
			name:      "stays closed under threshold",
			calls:     []func() error{ok, ok, failing, ok, ok, ok, ok, ok, ok, ok},
			probe:     ok,
			wantState: Closed,
		},
		{
			name:      "opens and rejects without calling",
			calls:     []func() error{failing, failing, failing},
			probe:     func() error { panic("backend must not be called while open") },
			wantState: Open,
			wantErr:   ErrOpenCB,
		},
		{
			name:      "half-open probe failure reopens",
			calls:     []func() error{failing, failing, failing},
			advance:   2 * time.Second,
			probe:     failing,
			wantState: Open,
			wantErr:   errBackend,
		},
		{
			name:      "half-open probe success keeps probing",
			calls:     []func() error{failing, failing, failing},
			advance:   2 * time.Second,
			probe:     ok,
			wantState: HalfOpen,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			cb := New(10, time.Second, 0.3, 2).(*circuitBreaker)
			cb.now = func() time.Time { return clock }

			for _, call := range tt.calls {
				_ = cb.Call(call)
			}
			clock = clock.Add(tt.advance)

			err := cb.Call(tt.probe)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantState, cb.State())
		})
	}
}

func Test_circuitBreaker_Recovers(t *testing.T) {
	t.Parallel()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := New(4, time.Second, 0.5, 2).(*circuitBreaker)
	cb.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		_ = cb.Call(func() error { return errors.New("timeout") })
	}
	require.Equal(t, Open, cb.State())

	clock = clock.Add(2 * time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, cb.Call(func() error { return nil }))
	}
	require.Equal(t, Closed, cb.State())
}
