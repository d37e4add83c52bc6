package engine

import (
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

// Allocator is the complete state of one placement strategy at a point in simulated time: the
// layout of the address space, the requests still waiting for room, and the policy that places
// them.
//
// Allocator values are immutable. Request and Tick both return a new Allocator and leave the
// receiver as it was, so earlier states stay valid for as long as anything holds them.
type Allocator struct {
	logger  *slog.Logger
	policy  placement.Policy
	regions *region.List
	pending *Queue
	tick    int
}

// New creates an Allocator for strategy over an address space of size units, all of it free
func New(logger *slog.Logger, strategy placement.Strategy, size int) (*Allocator, error) {
	policy, err := placement.New(strategy)
	if err != nil {
		return nil, err
	}

	regions, err := region.New(size)
	if err != nil {
		return nil, err
	}

	return NewWithPolicy(logger, policy, regions), nil
}

// NewWithPolicy creates an Allocator that starts from an existing layout and places requests with
// policy. The Allocator takes ownership of both.
func NewWithPolicy(logger *slog.Logger, policy placement.Policy, regions *region.List) *Allocator {
	return &Allocator{
		logger:  logger,
		policy:  policy,
		regions: regions,
		pending: &Queue{},
	}
}

func (a *Allocator) Strategy() placement.Strategy {
	return a.policy.Strategy()
}

// CurrentTick is the number of ticks that have produced this Allocator
func (a *Allocator) CurrentTick() int {
	return a.tick
}

// Regions returns a copy of the current address space layout
func (a *Allocator) Regions() *region.List {
	return a.regions.Clone()
}

// Pending returns the requests still waiting to be placed, in arrival order
func (a *Allocator) Pending() []Request {
	return a.pending.Requests()
}

// Done returns true once every request has been placed and has since expired, leaving the whole
// address space free
func (a *Allocator) Done() bool {
	return a.pending.Len() == 0 && a.regions.IsEmpty()
}

func (a *Allocator) clone() *Allocator {
	return &Allocator{
		logger:  a.logger,
		policy:  a.policy.Clone(),
		regions: a.regions.Clone(),
		pending: a.pending.Clone(),
		tick:    a.tick,
	}
}

// Request returns a new Allocator with request appended to the back of the pending queue. No
// placement is attempted until the next Tick. Requests that could never be placed, even in a
// completely free address space, are rejected.
func (a *Allocator) Request(request Request) (*Allocator, error) {
	err := memutils.CheckSize(request.Size, "request size")
	if err != nil {
		return nil, errors.Wrapf(err, "invalid request %s", request)
	}

	err = memutils.CheckFits(request.Size, a.regions.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid request %s", request)
	}

	next := a.clone()
	next.pending.Push(request)
	return next, nil
}

// Tick advances simulated time by one tick and returns a snapshot of the result along with the
// Allocator that produced it. Occupied spans age by one, expired spans are freed and merged with
// their neighbours, and then the pending queue is drained as far as the free space allows.
//
// Tick panics if the address space bookkeeping is found to be inconsistent.
func (a *Allocator) Tick() (Snapshot, *Allocator) {
	next := a.clone()
	next.tick++

	next.regions.Age()
	reclaimed := next.regions.Reclaim()
	merged := next.regions.Coalesce()
	memutils.DebugValidate(next.regions)

	next.logger.Debug("Allocator::Tick",
		slog.String("Strategy", next.policy.Strategy().String()),
		slog.Int("Tick", next.tick),
		slog.Int("Reclaimed", reclaimed),
		slog.Int("Merged", merged),
		slog.Int("Pending", next.pending.Len()),
	)

	next.drain()
	memutils.DebugValidate(next.regions)

	return next.snapshot(), next
}

// drain offers every pending request to the address space until a full pass places nothing.
// Requests that do not fit are deferred without blocking the requests behind them.
func (a *Allocator) drain() {
	for a.pending.Len() > 0 {
		placed := a.pending.drainPass(a.place)
		if placed == 0 {
			break
		}
	}

	if a.pending.Len() > 0 {
		a.logger.Debug("  Requests deferred", slog.Int("Count", a.pending.Len()), slog.Int("Tick", a.tick))
	}
}

func (a *Allocator) place(request Request) bool {
	span, found := a.policy.Select(a.regions.FreeSpans(), request.Size)
	if !found {
		return false
	}

	if span.Capacity < request.Size {
		panic(errors.AssertionFailedf("policy %s chose the span at %d with capacity %d for %s", a.policy.Strategy(), span.Start, span.Capacity, request))
	}

	err := a.regions.Insert(span.Index, request.Owner(), request.Size)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "could not place %s at %d", request, span.Start))
	}

	a.policy.Placed(span.Start)
	a.logger.Debug("  Placed", slog.String("Request", request.String()), slog.Int("Offset", span.Start))
	return true
}

func (a *Allocator) snapshot() Snapshot {
	return Snapshot{
		Strategy: a.policy.Strategy(),
		Tick:     a.tick,
		Regions:  a.regions.Clone(),
		Pending:  a.pending.Requests(),
	}
}
