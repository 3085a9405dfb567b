package test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"cafeboard/internal"
	mock_internal "cafeboard/internal/mock"
	"cafeboard/internal/model"
)

func order(id int64, status string, createdAt time.Time) model.Order {
	return model.Order{
		ID:         id,
		PublicID:   fmt.Sprintf("pub_%d", id),
		Status:     status,
		TotalPrice: decimal.NewFromInt(100),
		CreatedAt:  createdAt,
	}
}

func payload(o model.Order) json.RawMessage {
	raw, err := json.Marshal(o)
	Expect(err).ShouldNot(HaveOccurred())
	return raw
}

var _ = Describe("Service", func() {
	var (
		ctrl     *gomock.Controller
		backend  *mock_internal.MockIBackend
		notifier *mock_internal.MockINotifier
		live     *internal.LiveList
		srv      *internal.Service
	)
	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())

		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		backend = mock_internal.NewMockIBackend(ctrl)
		notifier = mock_internal.NewMockINotifier(ctrl)
		live = internal.NewLiveList()
		srv = internal.NewService(backend, live, notifier, logger.Sugar())
	})
	AfterEach(func() {
		ctrl.Finish()
	})

	Context("new_order events", func() {
		It("merges announced orders most recent first", func() {
			base := time.Now()

			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil).Times(3)
			notifier.EXPECT().NewOrder(gomock.Any()).Times(3)

			srv.HandleNewOrder(payload(order(1, model.OrderStatusPending, base)))
			srv.HandleNewOrder(payload(order(3, model.OrderStatusPending, base.Add(2*time.Minute))))
			srv.HandleNewOrder(payload(order(2, model.OrderStatusPending, base.Add(time.Minute))))

			orders := srv.Live()
			Expect(orders).Should(HaveLen(3))
			Expect(orders[0].ID).Should(Equal(int64(3)))
			Expect(orders[1].ID).Should(Equal(int64(2)))
			Expect(orders[2].ID).Should(Equal(int64(1)))
		})
		It("ignores a duplicate announcement for a known id", func() {
			o := order(1, model.OrderStatusPending, time.Now())

			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil).Times(1)
			notifier.EXPECT().NewOrder(gomock.Any()).Times(1)

			srv.HandleNewOrder(payload(o))
			srv.HandleNewOrder(payload(o))

			Expect(srv.Live()).Should(HaveLen(1))
		})
		It("drops a payload that is not an order", func() {
			srv.HandleNewOrder(json.RawMessage(`"nonsense"`))
			Expect(srv.Live()).Should(BeEmpty())
		})
	})

	Context("order_updated events", func() {
		It("never inserts on an update for an unknown id", func() {
			srv.HandleOrderUpdated(payload(order(42, model.OrderStatusAccepted, time.Now())))
			Expect(srv.Live()).Should(BeEmpty())
		})
		It("refetches aggregates exactly once when status reaches accepted", func() {
			live.Add(order(1, model.OrderStatusPending, time.Now()))

			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil).Times(1)

			srv.HandleOrderUpdated(json.RawMessage(`{"id":1,"status":"accepted"}`))

			got, ok := live.Get(1)
			Expect(ok).Should(BeTrue())
			Expect(got.Status).Should(Equal(model.OrderStatusAccepted))
		})
		It("refetches aggregates exactly once when paid flips on", func() {
			live.Add(order(1, model.OrderStatusPreparing, time.Now()))

			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil).Times(1)

			srv.HandleOrderUpdated(json.RawMessage(`{"id":1,"paid":true}`))

			got, _ := live.Get(1)
			Expect(got.Paid).Should(BeTrue())
			Expect(got.Status).Should(Equal(model.OrderStatusPreparing))
		})
		It("does not refetch when the update is not stats-relevant", func() {
			live.Add(order(1, model.OrderStatusReady, time.Now()))

			srv.HandleOrderUpdated(json.RawMessage(`{"id":1,"status":"completed"}`))

			got, _ := live.Get(1)
			Expect(got.Status).Should(Equal(model.OrderStatusCompleted))
		})
		It("keeps untouched fields through a partial patch", func() {
			o := order(1, model.OrderStatusPending, time.Now())
			o.CustomerName = "Ada"
			live.Add(o)

			srv.HandleOrderUpdated(json.RawMessage(`{"id":1,"status":"preparing"}`))

			got, _ := live.Get(1)
			Expect(got.CustomerName).Should(Equal("Ada"))
			Expect(got.Status).Should(Equal(model.OrderStatusPreparing))
		})
	})

	Context("order_cancelled events", func() {
		It("notifies and resyncs, which drops the cancelled order", func() {
			cancelled := order(1, model.OrderStatusPending, time.Now())
			kept := order(2, model.OrderStatusPreparing, time.Now())
			live.Add(cancelled)
			live.Add(kept)

			notifier.EXPECT().OrderCancelled()
			backend.EXPECT().LiveOrders(gomock.Any()).Return([]model.Order{kept}, nil)
			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil)

			srv.HandleOrderCancelled()

			orders := srv.Live()
			Expect(orders).Should(HaveLen(1))
			Expect(orders[0].ID).Should(Equal(int64(2)))
		})
	})

	Context("reconnect recovery", func() {
		It("resyncs and stays idempotent against replayed announcements", func() {
			a := order(1, model.OrderStatusPending, time.Now())

			backend.EXPECT().LiveOrders(gomock.Any()).Return([]model.Order{a}, nil)
			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil)

			srv.HandleReconnected()
			Expect(srv.Live()).Should(HaveLen(1))

			// The server replays an order we already hold.
			srv.HandleNewOrder(payload(a))
			Expect(srv.Live()).Should(HaveLen(1))
		})
	})

	Context("initial sync", func() {
		It("loads orders and aggregates", func() {
			summary := model.DashboardSummary{}
			summary.Stats.Orders.Value = decimal.NewFromInt(7)

			backend.EXPECT().LiveOrders(gomock.Any()).Return([]model.Order{order(1, model.OrderStatusPending, time.Now())}, nil)
			backend.EXPECT().GetDashboard(gomock.Any()).Return(summary, nil)

			Expect(srv.Resync(context.Background())).Should(Succeed())

			got, ok := srv.Summary()
			Expect(ok).Should(BeTrue())
			Expect(got.Stats.Orders.Value.IntPart()).Should(Equal(int64(7)))
		})
		It("surfaces a failed bulk fetch", func() {
			backend.EXPECT().LiveOrders(gomock.Any()).Return(nil, errors.New("some error"))

			Expect(srv.Resync(context.Background())).ShouldNot(Succeed())
		})
	})

	Context("scenario: B arrives, then A completes", func() {
		It("ends with [B, A(completed)] and no refetch for the completion", func() {
			base := time.Now()
			a := order(1, model.OrderStatusPending, base)

			backend.EXPECT().LiveOrders(gomock.Any()).Return([]model.Order{a}, nil)
			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil)
			Expect(srv.Resync(context.Background())).Should(Succeed())

			// new_order always refetches once.
			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil).Times(1)
			notifier.EXPECT().NewOrder(gomock.Any())
			srv.HandleNewOrder(payload(order(2, model.OrderStatusPending, base.Add(time.Minute))))

			// completing A is not stats-relevant: no further refetch.
			srv.HandleOrderUpdated(json.RawMessage(`{"id":1,"status":"completed"}`))

			orders := srv.Live()
			Expect(orders).Should(HaveLen(2))
			Expect(orders[0].ID).Should(Equal(int64(2)))
			Expect(orders[1].ID).Should(Equal(int64(1)))
			Expect(orders[1].Status).Should(Equal(model.OrderStatusCompleted))
		})
	})

	Context("user mutations", func() {
		It("ChangeStatus applies optimistically and refetches on accepted", func() {
			live.Add(order(1, model.OrderStatusPending, time.Now()))

			backend.EXPECT().UpdateOrderStatus(gomock.Any(), int64(1), model.OrderStatusAccepted).Return(nil)
			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil).Times(1)

			err := srv.ChangeStatus(context.Background(), 1, model.OrderStatusAccepted)
			Expect(err).ShouldNot(HaveOccurred())

			got, _ := live.Get(1)
			Expect(got.Status).Should(Equal(model.OrderStatusAccepted))
		})
		It("ChangeStatus rolls back when the backend rejects", func() {
			live.Add(order(1, model.OrderStatusPending, time.Now()))

			backend.EXPECT().UpdateOrderStatus(gomock.Any(), int64(1), model.OrderStatusPreparing).Return(errors.New("some error"))

			err := srv.ChangeStatus(context.Background(), 1, model.OrderStatusPreparing)
			Expect(err).Should(HaveOccurred())

			got, _ := live.Get(1)
			Expect(got.Status).Should(Equal(model.OrderStatusPending))
		})
		It("ChangeStatus rejects a backward move", func() {
			live.Add(order(1, model.OrderStatusPreparing, time.Now()))

			err := srv.ChangeStatus(context.Background(), 1, model.OrderStatusPending)
			Expect(err).Should(Equal(internal.ErrInvalidTransition))
		})
		It("ChangeStatus rejects moves out of a terminal status", func() {
			live.Add(order(1, model.OrderStatusCompleted, time.Now()))

			err := srv.ChangeStatus(context.Background(), 1, model.OrderStatusReady)
			Expect(err).Should(Equal(internal.ErrInvalidTransition))
		})
		It("ChangeStatus for an unknown order", func() {
			err := srv.ChangeStatus(context.Background(), 99, model.OrderStatusAccepted)
			Expect(err).Should(Equal(internal.ErrOrderNotFound))
		})
		It("MarkPaid flips paid once and refetches", func() {
			live.Add(order(1, model.OrderStatusReady, time.Now()))

			backend.EXPECT().SetOrderPaid(gomock.Any(), int64(1)).Return(nil)
			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil).Times(1)

			Expect(srv.MarkPaid(context.Background(), 1)).Should(Succeed())

			got, _ := live.Get(1)
			Expect(got.Paid).Should(BeTrue())

			Expect(srv.MarkPaid(context.Background(), 1)).Should(Equal(internal.ErrAlreadyPaid))
		})
		It("MarkPaid rolls back when the backend rejects", func() {
			live.Add(order(1, model.OrderStatusReady, time.Now()))

			backend.EXPECT().SetOrderPaid(gomock.Any(), int64(1)).Return(errors.New("some error"))

			Expect(srv.MarkPaid(context.Background(), 1)).ShouldNot(Succeed())

			got, _ := live.Get(1)
			Expect(got.Paid).Should(BeFalse())
		})
		It("keeps a pushed payment through a failed status change", func() {
			live.Add(order(1, model.OrderStatusPending, time.Now()))

			authoritative := order(1, model.OrderStatusPending, time.Now())
			authoritative.Paid = true

			// The payment lands over the push channel while our status
			// call is still in flight; the failing call must not roll
			// it back.
			backend.EXPECT().UpdateOrderStatus(gomock.Any(), int64(1), model.OrderStatusAccepted).DoAndReturn(
				func(context.Context, int64, string) error {
					srv.HandleOrderUpdated(json.RawMessage(`{"id":1,"paid":true}`))
					return errors.New("some error")
				})
			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil).Times(2)
			backend.EXPECT().LiveOrders(gomock.Any()).Return([]model.Order{authoritative}, nil)

			err := srv.ChangeStatus(context.Background(), 1, model.OrderStatusAccepted)
			Expect(err).Should(HaveOccurred())

			got, ok := live.Get(1)
			Expect(ok).Should(BeTrue())
			Expect(got.Paid).Should(BeTrue())
			Expect(got.Status).Should(Equal(model.OrderStatusPending))
		})
	})

	Context("refetch sequencing", func() {
		It("keeps the newer aggregates when an older refetch resolves late", func() {
			live.Add(order(1, model.OrderStatusPending, time.Now()))
			live.Add(order(2, model.OrderStatusPreparing, time.Now()))

			var older, newer model.DashboardSummary
			older.Stats.Orders.Value = decimal.NewFromInt(1)
			newer.Stats.Orders.Value = decimal.NewFromInt(2)

			started := make(chan struct{})
			release := make(chan struct{})
			backend.EXPECT().GetDashboard(gomock.Any()).DoAndReturn(
				func(context.Context) (model.DashboardSummary, error) {
					close(started)
					<-release
					return older, nil
				})
			backend.EXPECT().GetDashboard(gomock.Any()).Return(newer, nil)

			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				srv.HandleOrderUpdated(json.RawMessage(`{"id":1,"status":"accepted"}`))
			}()
			<-started

			// A second refetch is triggered and resolves first.
			srv.HandleOrderUpdated(json.RawMessage(`{"id":2,"paid":true}`))

			close(release)
			<-done

			got, ok := srv.Summary()
			Expect(ok).Should(BeTrue())
			Expect(got.Stats.Orders.Value.IntPart()).Should(Equal(int64(2)))
		})
		It("does not let a stale resync overwrite a newer local mutation", func() {
			live.Add(order(1, model.OrderStatusPending, time.Now()))

			fetchStarted := make(chan struct{})
			release := make(chan struct{})
			backend.EXPECT().LiveOrders(gomock.Any()).DoAndReturn(
				func(context.Context) ([]model.Order, error) {
					close(fetchStarted)
					<-release
					// State as it was before the mutation landed.
					return []model.Order{order(1, model.OrderStatusPending, time.Now())}, nil
				})
			backend.EXPECT().GetDashboard(gomock.Any()).Return(model.DashboardSummary{}, nil).Times(2)
			backend.EXPECT().UpdateOrderStatus(gomock.Any(), int64(1), model.OrderStatusAccepted).Return(nil)

			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				Expect(srv.Resync(context.Background())).Should(Succeed())
			}()
			<-fetchStarted

			Expect(srv.ChangeStatus(context.Background(), 1, model.OrderStatusAccepted)).Should(Succeed())

			close(release)
			<-done

			got, _ := live.Get(1)
			Expect(got.Status).Should(Equal(model.OrderStatusAccepted))
		})
	})
})
