package internal

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"cafeboard/internal/model"
)

type INotifier interface {
	NewOrder(model.Order)
	OrderCancelled()
}

// ChimeNotifier is the audio-cue/toast analogue for a headless
// process: a new order rings the terminal bell and logs a line, a
// cancellation logs a notice. Failures are logged, never propagated.
type ChimeNotifier struct {
	out    io.Writer
	logger *zap.SugaredLogger
}

func NewChimeNotifier(out io.Writer, logger *zap.SugaredLogger) *ChimeNotifier {
	return &ChimeNotifier{out: out, logger: logger}
}

func (n *ChimeNotifier) NewOrder(o model.Order) {
	if _, err := fmt.Fprint(n.out, "\a"); err != nil {
		n.logger.Errorf("order chime failed: %s", err.Error())
	}

	table := "takeaway"
	if o.TableNo != nil {
		table = fmt.Sprintf("table %d", *o.TableNo)
	}
	n.logger.Infow("new order received",
		"order", o.PublicID,
		"table", table,
		"total", o.TotalPrice,
	)
}

func (n *ChimeNotifier) OrderCancelled() {
	n.logger.Warnw("an order was cancelled, live view resyncing")
}
