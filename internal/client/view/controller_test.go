package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobalog/bobalog-go/internal/model"
)

type fakeFetcher struct {
	mu            sync.Mutex
	logCalls      int
	filteredCalls int
	rankingCalls  int

	log      []model.Purchase
	filtered []model.Purchase
	ranking  []model.FlavourTotal

	logErr      error
	filteredErr error
	rankingErr  error

	// When set, FetchFiltered signals filteredStarted and then waits on
	// releaseFiltered before returning.
	filteredStarted chan struct{}
	releaseFiltered chan struct{}
}

func (f *fakeFetcher) FetchLog(ctx context.Context) ([]model.Purchase, error) {
	f.mu.Lock()
	f.logCalls++
	f.mu.Unlock()
	return f.log, f.logErr
}

func (f *fakeFetcher) FetchFiltered(ctx context.Context, filter model.FilterRequest) ([]model.Purchase, error) {
	f.mu.Lock()
	f.filteredCalls++
	f.mu.Unlock()
	if f.filteredStarted != nil {
		f.filteredStarted <- struct{}{}
		<-f.releaseFiltered
	}
	return f.filtered, f.filteredErr
}

func (f *fakeFetcher) FetchRanking(ctx context.Context) ([]model.FlavourTotal, error) {
	f.mu.Lock()
	f.rankingCalls++
	f.mu.Unlock()
	return f.ranking, f.rankingErr
}

var (
	logData      = []model.Purchase{{ID: 1, Flavour: "Taro"}, {ID: 2, Flavour: "Mango"}}
	filteredData = []model.Purchase{{ID: 2, Flavour: "Mango"}}
	rankingData  = []model.FlavourTotal{{Flavour: "Taro", TotalCount: 9}}
)

func newTestController() (*Controller, *fakeFetcher) {
	f := &fakeFetcher{log: logData, filtered: filteredData, ranking: rankingData}
	return NewController(f), f
}

func TestRefresh_LoadsLog(t *testing.T) {
	c, _ := newTestController()

	require.NoError(t, c.Refresh(context.Background()))

	assert.Equal(t, StateLog, c.State())
	assert.Equal(t, logData, c.Purchases())
}

func TestApplyFilter_ReplacesDataset(t *testing.T) {
	c, _ := newTestController()
	require.NoError(t, c.Refresh(context.Background()))

	err := c.ApplyFilter(context.Background(), model.FlavourRankFilter("Mango"))
	require.NoError(t, err)

	assert.Equal(t, StateFiltered, c.State())
	assert.True(t, c.Querying())
	assert.Equal(t, filteredData, c.Purchases())
}

func TestApplyFilter_RejectsUnselectedMode(t *testing.T) {
	c, f := newTestController()

	err := c.ApplyFilter(context.Background(), model.FilterRequest{})
	assert.ErrorIs(t, err, model.ErrChooseOneFilter)
	assert.Zero(t, f.filteredCalls, "an ambiguous filter must never be fetched")
}

func TestAfterMutation_WhileFilteredShowsLog(t *testing.T) {
	c, _ := newTestController()
	require.NoError(t, c.ApplyFilter(context.Background(), model.FlavourRankFilter("Mango")))

	require.NoError(t, c.AfterMutation(context.Background()))

	// The filtered result is invalidated: the unfiltered log is displayed,
	// but filtered intent survives until an explicit revert.
	assert.Equal(t, logData, c.Purchases())
	assert.True(t, c.Querying())
}

func TestRevert_IdempotentSecondCall(t *testing.T) {
	c, f := newTestController()
	require.NoError(t, c.ApplyFilter(context.Background(), model.FlavourRankFilter("Mango")))

	require.NoError(t, c.Revert(context.Background()))
	assert.Equal(t, StateLog, c.State())
	assert.False(t, c.Querying())
	assert.Equal(t, logData, c.Purchases())

	callsAfterFirst := f.logCalls
	require.NoError(t, c.Revert(context.Background()))
	assert.Equal(t, callsAfterFirst, f.logCalls, "second revert must not refetch")
}

func TestFailedFetchKeepsPreviousDataset(t *testing.T) {
	c, f := newTestController()
	require.NoError(t, c.Refresh(context.Background()))

	f.filteredErr = errors.New("store unreachable")
	err := c.ApplyFilter(context.Background(), model.FlavourRankFilter("Mango"))
	require.Error(t, err)

	assert.Equal(t, logData, c.Purchases(), "previous dataset must remain visible")
	assert.Equal(t, StateLog, c.State())
	assert.False(t, c.Querying())
}

func TestSupersededFetchIsDiscarded(t *testing.T) {
	c, f := newTestController()
	f.filteredStarted = make(chan struct{})
	f.releaseFiltered = make(chan struct{})

	done := make(chan error)
	go func() {
		done <- c.ApplyFilter(context.Background(), model.FlavourRankFilter("Mango"))
	}()

	// Wait until the filtered fetch is in flight, then let a mutation
	// refresh complete first.
	<-f.filteredStarted
	require.NoError(t, c.AfterMutation(context.Background()))

	close(f.releaseFiltered)
	require.NoError(t, <-done)

	// The filtered result arrived after it was superseded; it must not
	// clobber the newer log dataset.
	assert.Equal(t, logData, c.Purchases())
	assert.NotEqual(t, StateFiltered, c.State())
}

func TestShowRanking_RefreshesPerActivation(t *testing.T) {
	c, f := newTestController()

	require.NoError(t, c.ShowRanking(context.Background()))
	assert.Equal(t, StateRanking, c.State())
	assert.Equal(t, rankingData, c.Ranking())

	require.NoError(t, c.ShowLog(context.Background()))
	require.NoError(t, c.ShowRanking(context.Background()))
	assert.Equal(t, 2, f.rankingCalls)
}

func TestShowLog_ReusesHeldDataset(t *testing.T) {
	c, f := newTestController()
	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.ShowRanking(context.Background()))

	callsBefore := f.logCalls
	require.NoError(t, c.ShowLog(context.Background()))

	assert.Equal(t, StateLog, c.State())
	assert.Equal(t, logData, c.Purchases())
	assert.Equal(t, callsBefore, f.logCalls, "tab switch must not refetch fresh data")
}

func TestShowLog_RestoresFilteredIntent(t *testing.T) {
	c, _ := newTestController()
	require.NoError(t, c.ApplyFilter(context.Background(), model.FlavourRankFilter("Mango")))
	require.NoError(t, c.ShowRanking(context.Background()))

	require.NoError(t, c.ShowLog(context.Background()))

	assert.Equal(t, StateFiltered, c.State())
	assert.Equal(t, filteredData, c.Purchases())
}

func TestRefresh_SkippedWhileFiltering(t *testing.T) {
	c, f := newTestController()
	require.NoError(t, c.ApplyFilter(context.Background(), model.FlavourRankFilter("Mango")))

	callsBefore := f.logCalls
	require.NoError(t, c.Refresh(context.Background()))

	assert.Equal(t, callsBefore, f.logCalls, "refresh must not clobber an active filtered view")
	assert.Equal(t, filteredData, c.Purchases())
}

func TestSpendings(t *testing.T) {
	c, f := newTestController()
	f.log = []model.Purchase{
		{ID: 1, Quantity: 2, Price: 3.50},
		{ID: 2, Quantity: 1, Price: 4.25},
	}
	require.NoError(t, c.Refresh(context.Background()))

	assert.InDelta(t, 11.25, c.Spendings(), 1e-9)
}
