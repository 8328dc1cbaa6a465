package transport

import (
	"context"
	"time"

	"planner-server/internal/app"
)

// RunHeartbeat pings every connected user every interval until ctx is
// canceled, per spec.md §4.5. It's meant to be run in its own goroutine
// for the lifetime of the process.
func RunHeartbeat(ctx context.Context, a *app.App, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.PingAll()
		}
	}
}
