/*
Copyright the Mirrorctl contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package client

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Backoff bounds a retry or poll loop: a fixed interval between attempts and
// a hard attempt ceiling. The defaults match observed controller operation
// latencies (5s x 24 = 120s); both are deployment tunables, not constants.
type Backoff struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultBackoff returns the standard polling budget.
func DefaultBackoff() Backoff {
	return Backoff{
		Interval:    5 * time.Second,
		MaxAttempts: 24,
	}
}

// Retry invokes fn until it succeeds, fails with a non-retriable error, or
// the attempt budget is spent. The sleep between attempts is the only
// suspension point, so abandoning the context bounds cancellation latency to
// one interval.
func Retry(ctx context.Context, backoff Backoff, retriable func(error) bool, fn func() error) error {
	var err error
	for attempt := 0; attempt < backoff.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !retriable(err) {
			return err
		}
		if attempt == backoff.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(err, "canceled while waiting to retry")
		case <-time.After(backoff.Interval):
		}
	}
	return err
}
