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

// Package jobs observes triggered asynchronous operations to completion.
package jobs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// Getter reads one job's status.
type Getter interface {
	GetJob(ctx context.Context, uuid string) (*ontap.Job, error)
}

// Outcome is the terminal observation of a watched operation.
type Outcome string

const (
	// OutcomeSucceeded: the job reached terminal success.
	OutcomeSucceeded Outcome = "Succeeded"
	// OutcomeFailed: the job reached terminal failure.
	OutcomeFailed Outcome = "Failed"
	// OutcomeTimedOut: the wait budget elapsed without a terminal state.
	// The truth is still unknown; callers must re-check resource state
	// directly rather than assume failure.
	OutcomeTimedOut Outcome = "TimedOut"
	// OutcomeUnknown: the request completed synchronously and returned no
	// job to watch; callers verify resource state directly.
	OutcomeUnknown Outcome = "Unknown"
)

// Result is what watching one operation produced.
type Result struct {
	Outcome Outcome
	Message string
}

// Indeterminate reports whether the result leaves the operation's effect
// unconfirmed either way.
func (r Result) Indeterminate() bool {
	return r.Outcome == OutcomeTimedOut || r.Outcome == OutcomeUnknown
}

// Watcher polls a job at a fixed interval until it reaches a terminal
// outcome or the attempt budget is spent.
type Watcher struct {
	jobs    Getter
	backoff client.Backoff
	log     logrus.FieldLogger
}

// NewWatcher returns a Watcher with the given polling budget.
func NewWatcher(jobs Getter, backoff client.Backoff, log logrus.FieldLogger) *Watcher {
	return &Watcher{
		jobs:    jobs,
		backoff: backoff,
		log:     log,
	}
}

// Wait observes the referenced job until terminal or timed out. A nil or
// empty reference means the operation completed synchronously; Wait reports
// OutcomeUnknown and the caller verifies state directly.
func (w *Watcher) Wait(ctx context.Context, ref *ontap.JobRef) (Result, error) {
	if ref == nil || ref.UUID == "" {
		return Result{
			Outcome: OutcomeUnknown,
			Message: "request completed synchronously; no job to watch",
		}, nil
	}

	log := w.log.WithField("job", ref.UUID)

	for attempt := 0; attempt < w.backoff.MaxAttempts; attempt++ {
		job, err := w.jobs.GetJob(ctx, ref.UUID)
		switch {
		case err != nil && client.IsRetriable(err):
			// A polling hiccup consumes an attempt but doesn't abort
			// the watch.
			log.WithError(err).Debug("Transient error polling job")
		case err != nil:
			return Result{}, errors.Wrapf(err, "error polling job %s", ref.UUID)
		case job.Terminal():
			log.WithFields(logrus.Fields{
				"state":       job.State,
				"description": job.Description,
			}).Debug("Job reached terminal state")
			if job.State == ontap.JobStateSuccess {
				return Result{Outcome: OutcomeSucceeded, Message: job.Message}, nil
			}
			return Result{Outcome: OutcomeFailed, Message: jobFailureMessage(job)}, nil
		default:
			log.WithField("state", job.State).Debug("Job still running")
		}

		if attempt == w.backoff.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return Result{}, errors.WithStack(ctx.Err())
		case <-time.After(w.backoff.Interval):
		}
	}

	return Result{
		Outcome: OutcomeTimedOut,
		Message: "job did not reach a terminal state within the wait budget",
	}, nil
}

func jobFailureMessage(job *ontap.Job) string {
	if job.Message != "" {
		return job.Description + ": " + job.Message
	}
	return job.Description
}
