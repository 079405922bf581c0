package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/chirp-server/internal/metrics"
	"github.com/dtroode/chirp-server/internal/mocks"
	"github.com/dtroode/chirp-server/internal/model"
	"github.com/dtroode/chirp-server/internal/repository/memory"
	"github.com/dtroode/chirp-server/internal/testutil"
)

func TestSessionPruner_Prune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	now := time.Now()
	accountID := uuid.New()

	require.NoError(t, sessions.Create(ctx, model.Session{AccountID: accountID, Token: "old", IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, sessions.Create(ctx, model.Session{AccountID: accountID, Token: "live", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}))

	reg := prometheus.NewRegistry()
	p := NewSessionPruner(sessions, time.Minute, metrics.NewCollector(reg), testutil.MakeNoopLogger())

	n, err := p.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = sessions.GetByToken(ctx, "live")
	assert.NoError(t, err)

	n, err = p.Prune(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := promtest.GatherAndCount(reg, "chirp_sessions_pruned_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSessionPruner_Prune_Error(t *testing.T) {
	t.Parallel()

	store := mocks.NewSessionStore(t)
	store.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), errors.New("db down"))

	p := NewSessionPruner(store, time.Minute, metrics.Nop{}, testutil.MakeNoopLogger())
	_, err := p.Prune(context.Background())
	assert.Error(t, err)
}

func TestSessionPruner_Run(t *testing.T) {
	t.Parallel()

	calls := make(chan struct{}, 10)
	store := mocks.NewSessionStore(t)
	store.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(0), nil).
		Run(func(mock.Arguments) {
			select {
			case calls <- struct{}{}:
			default:
			}
		})

	p := NewSessionPruner(store, 5*time.Millisecond, metrics.Nop{}, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("pruner did not tick")
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop")
	}
}
