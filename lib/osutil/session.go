package osutil

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Returns a context that is cancelled once SIGINT or SIGTERM arrives,
// so an in-flight scrape can stop cleanly instead of being killed mid-write.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}
