// Package view keeps the client's displayed dataset consistent while
// mutations, filtered queries and tab switches interleave. At most one
// dataset is authoritative at a time; replacing it is always a full swap,
// never a merge.
package view

import (
	"context"
	"sync"

	"github.com/bobalog/bobalog-go/internal/model"
)

// State names the dataset currently considered authoritative for display.
type State int

const (
	StateLog State = iota
	StateFiltered
	StateRanking
)

func (s State) String() string {
	switch s {
	case StateLog:
		return "log"
	case StateFiltered:
		return "filtered"
	case StateRanking:
		return "ranking"
	default:
		return "unknown"
	}
}

// Fetcher is the read side of the server consumed by the controller.
// *api.Client satisfies it.
type Fetcher interface {
	FetchLog(ctx context.Context) ([]model.Purchase, error)
	FetchFiltered(ctx context.Context, filter model.FilterRequest) ([]model.Purchase, error)
	FetchRanking(ctx context.Context) ([]model.FlavourTotal, error)
}

// Controller tracks which dataset is authoritative and refreshes it after
// every mutation or filter action.
//
// Each state-changing action bumps a generation counter before its fetch
// starts; a fetch whose generation is no longer current when it completes is
// discarded, so the dataset shown always belongs to the most recently
// initiated action. A failed fetch leaves the previous dataset in place and
// returns the error.
type Controller struct {
	fetcher Fetcher

	mu        sync.Mutex
	gen       uint64
	state     State
	querying  bool
	stale     bool
	purchases []model.Purchase
	ranking   []model.FlavourTotal
}

// NewController creates a controller in the Log state with no data loaded.
// Call Refresh to populate the initial log.
func NewController(fetcher Fetcher) *Controller {
	return &Controller{fetcher: fetcher, state: StateLog}
}

// State returns the currently authoritative state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Querying reports whether a filtered view is the declared user intent.
func (c *Controller) Querying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.querying
}

// Purchases returns the displayed purchase dataset.
func (c *Controller) Purchases() []model.Purchase {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Purchase, len(c.purchases))
	copy(out, c.purchases)
	return out
}

// Ranking returns the displayed global ranking dataset.
func (c *Controller) Ranking() []model.FlavourTotal {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.FlavourTotal, len(c.ranking))
	copy(out, c.ranking)
	return out
}

// Spendings returns the total cost (quantity times price) of the purchases
// currently displayed.
func (c *Controller) Spendings() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, p := range c.purchases {
		total += float64(p.Quantity) * p.Price
	}
	return total
}

// begin registers a new action and returns its generation. Any fetch started
// under an earlier generation is superseded from this point on.
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// Refresh loads the unfiltered log unless a filtered view is the declared
// intent. Used on startup and after login.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.querying {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	gen := c.begin()
	purchases, err := c.fetcher.FetchLog(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.stale = true
		return err
	}
	if gen != c.gen {
		return nil // superseded, discard
	}
	c.purchases = purchases
	c.state = StateLog
	c.stale = false
	return nil
}

// ApplyFilter replaces the dataset with the result of a single-mode filter
// and declares filtered intent. The request must come from model.ParseFilter
// or one of the typed constructors.
func (c *Controller) ApplyFilter(ctx context.Context, filter model.FilterRequest) error {
	if filter.Mode == model.FilterNone {
		return model.ErrChooseOneFilter
	}

	gen := c.begin()
	purchases, err := c.fetcher.FetchFiltered(ctx, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return err
	}
	if gen != c.gen {
		return nil // superseded, discard
	}
	c.purchases = purchases
	c.state = StateFiltered
	c.querying = true
	return nil
}

// Revert clears filtered intent and restores the unfiltered log. Calling it
// again with no filter active is a no-op.
func (c *Controller) Revert(ctx context.Context) error {
	c.mu.Lock()
	if !c.querying && c.state == StateLog && !c.stale {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	gen := c.begin()
	purchases, err := c.fetcher.FetchLog(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return err
	}
	if gen != c.gen {
		return nil // superseded, discard
	}
	c.purchases = purchases
	c.state = StateLog
	c.querying = false
	c.stale = false
	return nil
}

// AfterMutation refreshes the dataset once a create, update or delete has
// been acknowledged. The filtered result, if any, is invalidated by the
// mutation, so the unfiltered log is fetched; filtered intent survives until
// the user explicitly reverts.
func (c *Controller) AfterMutation(ctx context.Context) error {
	gen := c.begin()
	purchases, err := c.fetcher.FetchLog(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.stale = true
		return err
	}
	if gen != c.gen {
		return nil // superseded, discard
	}
	c.purchases = purchases
	if !c.querying {
		c.state = StateLog
	}
	c.stale = false
	return nil
}

// ShowRanking switches to the global ranking tab, refreshing the aggregate
// once per activation.
func (c *Controller) ShowRanking(ctx context.Context) error {
	gen := c.begin()
	ranking, err := c.fetcher.FetchRanking(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return err
	}
	if gen != c.gen {
		return nil // superseded, discard
	}
	c.ranking = ranking
	c.state = StateRanking
	return nil
}

// ShowLog switches back to the personal tab. The held dataset is reused
// unless a failed refresh left it stale; filtered intent, if still declared,
// makes the filtered dataset authoritative again.
func (c *Controller) ShowLog(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateRanking {
		c.mu.Unlock()
		return nil
	}
	if c.querying {
		c.state = StateFiltered
		c.mu.Unlock()
		return nil
	}
	stale := c.stale
	c.state = StateLog
	c.mu.Unlock()

	if !stale {
		return nil
	}
	return c.Refresh(ctx)
}
