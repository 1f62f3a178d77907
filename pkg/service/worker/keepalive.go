package worker

import (
	"context"
	"time"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/service/hub"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/logging"
)

// KeepaliveWorker periodically pings all live WebSocket connections and lets
// the hub prune the ones that no longer accept writes. gorilla/websocket
// sends no pings on its own, so without this sweep a silently dropped peer
// would linger in the connection set until the next broadcast.
//
// Architecture assumptions:
// - Single server instance; the hub it sweeps is process-local.
type KeepaliveWorker struct {
	hub      *hub.Hub
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewKeepaliveWorker creates a worker sweeping at the given interval.
func NewKeepaliveWorker(h *hub.Hub, interval time.Duration) *KeepaliveWorker {
	return &KeepaliveWorker{
		hub:      h,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. Does not block.
func (w *KeepaliveWorker) Start(ctx context.Context) error {
	logging.Default().Info("keepalive worker starting", "interval", w.interval.String())
	go w.run(ctx)
	return nil
}

// Stop signals the worker to stop and waits for completion.
func (w *KeepaliveWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("keepalive worker stopped")
}

func (w *KeepaliveWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.hub.Sweep(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("keepalive worker context cancelled")
			return
		}
	}
}
