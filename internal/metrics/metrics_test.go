package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/vango-styles/pkg/styling"
)

type flakySink struct{ fail bool }

func (s *flakySink) InsertRule(string) (styling.RuleHandle, error) {
	if s.fail {
		return nil, errors.New("rejected")
	}
	return nil, nil
}

func TestMetrics_EngineEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	e := styling.New(styling.WithObserver(m))
	m.WatchCache(e.Cache())

	obj := styling.MustObject(
		styling.Decl("color", styling.String("red")),
		styling.On(styling.StateHover, styling.Decl("color", styling.String("blue"))),
	)
	records, err := e.ComputeRecords(obj)
	require.NoError(t, err)
	_, err = e.ComputeRecords(obj)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Computed.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Computed.WithLabelValues("hit")))

	sink := &flakySink{fail: true}
	require.Error(t, e.Commit(records, styling.MustAttach(sink)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InsertFailed))

	sink.fail = false
	require.NoError(t, e.Commit(records, styling.MustAttach(sink)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Inserted.WithLabelValues("text")))

	n, err := testutil.GatherAndCount(reg, "vstyle_cached_rules")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
