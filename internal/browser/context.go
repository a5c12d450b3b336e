// internal/browser/context.go
package browser

import (
	"context"
)

// CombineContext creates a new context derived from primary that is canceled
// when either primary or secondary is canceled. It inherits values from
// primary, which matters for chromedp: primary carries the CDP target
// information while secondary carries the operational deadline.
func CombineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)

	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}
