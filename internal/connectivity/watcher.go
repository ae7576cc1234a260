package connectivity

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Watcher polls the server's health endpoint and invokes onOnline each
// time connectivity transitions from offline to online. The storefront
// agent uses that edge to kick a replay pass.
type Watcher struct {
	url      string
	interval time.Duration
	client   *http.Client
	onOnline func()
	logger   *zap.Logger

	online bool
}

func NewWatcher(baseURL string, interval time.Duration, timeout time.Duration, onOnline func(), logger *zap.Logger) *Watcher {
	return &Watcher{
		url:      baseURL + "/health",
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		onOnline: onOnline,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. The first successful probe counts
// as an offline-to-online transition so a freshly started agent syncs
// immediately when the server is reachable.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.probe(ctx)
		}
	}
}

func (w *Watcher) probe(ctx context.Context) {
	up := w.check(ctx)
	if up && !w.online {
		w.logger.Info("connectivity restored")
		w.onOnline()
	} else if !up && w.online {
		w.logger.Info("connectivity lost")
	}
	w.online = up
}

func (w *Watcher) check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.url, nil)
	if err != nil {
		return false
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
