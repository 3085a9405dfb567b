package internal

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"cafeboard/internal/model"
)

const refetchTimeout = 10 * time.Second

type IService interface {
	Live() []model.Order
	Summary() (model.DashboardSummary, bool)
	ListOrders(context.Context, ListOrdersParams) (model.OrdersPage, error)
	ChangeStatus(ctx context.Context, id int64, status string) error
	MarkPaid(ctx context.Context, id int64) error
}

// Service merges push events and user mutations into the live order
// set and keeps the aggregate cache in step with the backend.
//
// Aggregates are never recomputed locally: any stats-relevant change
// triggers a refetch, sequenced by a generation counter so a slow
// response that lost the race to a newer one is dropped.
type Service struct {
	backend  IBackend
	live     *LiveList
	notifier INotifier
	logger   *zap.SugaredLogger

	statsSeq uint64

	mu           sync.Mutex
	summary      model.DashboardSummary
	hasSummary   bool
	statsApplied uint64
	listApplied  uint64
}

func NewService(backend IBackend, live *LiveList, notifier INotifier, logger *zap.SugaredLogger) *Service {
	return &Service{
		backend:  backend,
		live:     live,
		notifier: notifier,
		logger:   logger,
	}
}

// Resync is the initial bulk load and the reconnect recovery path:
// today's orders and aggregates are fetched and swapped in wholesale,
// which makes event replay after a reconnect idempotent.
func (s *Service) Resync(ctx context.Context) error {
	seq := atomic.AddUint64(&s.statsSeq, 1)

	orders, err := s.backend.LiveOrders(ctx)
	if err != nil {
		return err
	}

	summary, err := s.backend.GetDashboard(ctx)
	if err != nil {
		return err
	}

	s.applyOrders(seq, orders)
	s.applySummary(seq, summary)
	return nil
}

func (s *Service) Live() []model.Order {
	return s.live.Snapshot()
}

func (s *Service) Summary() (model.DashboardSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary, s.hasSummary
}

func (s *Service) ListOrders(ctx context.Context, p ListOrdersParams) (model.OrdersPage, error) {
	return s.backend.ListOrders(ctx, p)
}

// HandleNewOrder merges an announced order into the live set. A
// duplicate announcement changes nothing and makes no noise.
func (s *Service) HandleNewOrder(payload json.RawMessage) {
	var o model.Order
	if err := json.Unmarshal(payload, &o); err != nil {
		s.logger.Errorf("bad new_order payload: %s", err.Error())
		return
	}

	if !s.live.Add(o) {
		s.logger.Debugf("duplicate new_order for id %d ignored", o.ID)
		return
	}

	s.notifier.NewOrder(o)
	s.refetchStats("new_order")
}

// HandleOrderUpdated patches the matching order in place. Unknown ids
// are dropped: an update never inserts. Aggregates are refetched only
// when the patch moved status to accepted or flipped paid on.
func (s *Service) HandleOrderUpdated(payload json.RawMessage) {
	before, after, ok, err := s.live.Patch(payload)
	if err != nil {
		s.logger.Errorf("bad order update payload: %s", err.Error())
		return
	}
	if !ok {
		s.logger.Debugf("update for unknown order dropped")
		return
	}

	if statsRelevant(before, after) {
		s.refetchStats("order_updated")
	}
}

// HandleOrderCancelled has no payload to consume; the notice fires and
// a full resync drops the cancelled order from the live view.
func (s *Service) HandleOrderCancelled() {
	s.notifier.OrderCancelled()

	statsRefetchTotal.WithLabelValues("order_cancelled").Inc()
	ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
	defer cancel()
	if err := s.Resync(ctx); err != nil {
		s.logger.Errorf("resync after cancellation failed: %s", err.Error())
	}
}

// HandleReconnected recovers whatever was pushed while the channel was
// down.
func (s *Service) HandleReconnected() {
	statsRefetchTotal.WithLabelValues("reconnect").Inc()
	ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
	defer cancel()
	if err := s.Resync(ctx); err != nil {
		s.logger.Errorf("resync after reconnect failed: %s", err.Error())
	}
}

// ChangeStatus applies a user-initiated status change optimistically:
// the transition table is checked and the status applied in one step
// under the list lock, and the backend call failing rolls back just
// that field. A rollback that finds the entry touched in the meantime
// defers to the pushed state and resyncs instead.
func (s *Service) ChangeStatus(ctx context.Context, id int64, status string) error {
	if !model.ValidStatus(status) {
		return ErrInvalidStatus
	}

	before, after, version, err := s.live.ApplyStatus(id, status)
	if err != nil {
		return err
	}
	s.markLiveTouched()

	if err := s.backend.UpdateOrderStatus(ctx, id, status); err != nil {
		if s.live.RevertStatus(id, before.Status, version) {
			s.markLiveTouched()
		} else {
			s.resyncAfterConflict(id)
		}
		return err
	}

	// The pushed echo of this change patches an already-updated copy
	// and so never hits the refetch rule; refetch here instead.
	if statsRelevant(before, after) {
		s.refetchStats("local_status")
	}
	return nil
}

// MarkPaid flips paid on, optimistically, once.
func (s *Service) MarkPaid(ctx context.Context, id int64) error {
	_, _, version, err := s.live.ApplyPaid(id)
	if err != nil {
		return err
	}
	s.markLiveTouched()

	if err := s.backend.SetOrderPaid(ctx, id); err != nil {
		if s.live.RevertPaid(id, version) {
			s.markLiveTouched()
		} else {
			s.resyncAfterConflict(id)
		}
		return err
	}

	s.refetchStats("local_paid")
	return nil
}

// statsRelevant pins the one refetch rule of the original's divergent
// screens: status arriving at accepted, or paid turning true.
func statsRelevant(before, after model.Order) bool {
	if after.Status == model.OrderStatusAccepted && before.Status != model.OrderStatusAccepted {
		return true
	}
	return after.Paid && !before.Paid
}

func (s *Service) refetchStats(trigger string) {
	seq := atomic.AddUint64(&s.statsSeq, 1)
	statsRefetchTotal.WithLabelValues(trigger).Inc()

	ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
	defer cancel()

	summary, err := s.backend.GetDashboard(ctx)
	if err != nil {
		s.logger.Errorf("stats refetch (%s) failed: %s", trigger, err.Error())
		return
	}
	s.applySummary(seq, summary)
}

// markLiveTouched advances the generation counter past a local list
// write, so a resync whose fetch started earlier cannot swap stale
// state back in.
func (s *Service) markLiveTouched() {
	seq := atomic.AddUint64(&s.statsSeq, 1)

	s.mu.Lock()
	if seq > s.listApplied {
		s.listApplied = seq
	}
	s.mu.Unlock()
}

// resyncAfterConflict runs when a rollback finds its entry already
// overwritten by something authoritative; rather than guess at a merge,
// the whole live set is refetched.
func (s *Service) resyncAfterConflict(id int64) {
	s.logger.Warnf("order %d changed while its mutation was in flight, resyncing instead of rolling back", id)

	statsRefetchTotal.WithLabelValues("mutation_conflict").Inc()
	ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
	defer cancel()
	if err := s.Resync(ctx); err != nil {
		s.logger.Errorf("resync after mutation conflict failed: %s", err.Error())
	}
}

func (s *Service) applyOrders(seq uint64, orders []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A fetch that started before a later local write is stale.
	if seq < s.listApplied {
		return
	}
	s.listApplied = seq
	s.live.Replace(orders)
}

func (s *Service) applySummary(seq uint64, summary model.DashboardSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A refetch that resolved after a newer one is stale; dropping it
	// keeps the cache last-triggered-wins.
	if seq < s.statsApplied {
		return
	}
	s.statsApplied = seq
	s.summary = summary
	s.hasSummary = true
}
