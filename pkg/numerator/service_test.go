package numerator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRow struct {
	val int64
	err error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int64); ok {
		*p = r.val
	}
	return nil
}

type mockQuerier struct {
	counters map[string]int64
	calls    int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (q *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.calls++
	key := args[0].(string)
	inc := int64(1)
	if len(args) > 1 {
		inc = args[1].(int64)
	}
	q.counters[key] += inc
	return &mockRow{val: q.counters[key]}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)

	cfg := DefaultConfig("TN")
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(context.Background(), cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "TN-2026-00001", num)

	num, err = svc.GetNextNumber(context.Background(), cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "TN-2026-00002", num)

	assert.Equal(t, 2, q.calls)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)

	cfg := DefaultConfig("TN")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 10; i++ {
		num, err := svc.GetNextNumber(context.Background(), cfg, opts, period)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("TN-2026-%05d", i), num)
	}

	// One DB round-trip reserves the whole range.
	assert.Equal(t, 1, q.calls)

	num, err := svc.GetNextNumber(context.Background(), cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "TN-2026-00011", num)
	assert.Equal(t, 2, q.calls)
}

func TestGetNextNumber_ResetPeriods(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)

	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	cfg := Config{Prefix: "TN", IncludeYear: true, PadWidth: 5, ResetPeriod: "month"}

	num, err := svc.GetNextNumber(context.Background(), cfg, nil, jan)
	require.NoError(t, err)
	assert.Equal(t, "TN-2026-00001", num)

	// New month starts its own sequence.
	num, err = svc.GetNextNumber(context.Background(), cfg, nil, feb)
	require.NoError(t, err)
	assert.Equal(t, "TN-2026-00001", num)

	cfgNever := Config{Prefix: "GLB", PadWidth: 3, ResetPeriod: "never"}
	num, err = svc.GetNextNumber(context.Background(), cfgNever, nil, jan)
	require.NoError(t, err)
	assert.Equal(t, "GLB-001", num)
}

func TestSetNextNumber(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)

	cfg := DefaultConfig("TN")
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// Seed a cached range, then override; the override must drop the cache.
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}
	_, err := svc.GetNextNumber(context.Background(), cfg, opts, period)
	require.NoError(t, err)

	require.NoError(t, svc.SetNextNumber(context.Background(), cfg, period, 500))
	q.counters["TN_2026"] = 500

	num, err := svc.GetNextNumber(context.Background(), cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "TN-2026-00501", num)
}
