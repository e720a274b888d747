package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cryptopass/internal/common"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, StatusOK},
		{fmt.Errorf("get: %w", common.ErrorNotFound), StatusNotFound},
		{common.ErrTokenExpired, StatusUnauthorized},
		{common.ErrShareFinal, StatusRejected},
		{errors.New("boom"), StatusError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err))
	}
}

func TestObserve_CountsByStatus(t *testing.T) {
	m := New()

	m.Observe("create", nil, time.Millisecond)
	m.Observe("create", nil, time.Millisecond)
	m.Observe("create", errors.New("db down"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("create", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create", StatusError)))

	n, err := testutil.GatherAndCount(m.Registry(), "cryptopass_store_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTrack_ReadsDeferredError(t *testing.T) {
	m := New()

	run := func() (err error) {
		defer m.Track("update", time.Now(), &err)
		return common.ErrorNotFound
	}
	_ = run()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("update", StatusNotFound)))
}

func TestNilMetrics_IsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe("x", nil, 0)
		m.DocumentCreated()
	})
}
