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

package mirror

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/jobs"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// API is the slice of control-plane operations the state machine needs.
type API interface {
	GetRelationship(ctx context.Context, uuid string) (*ontap.Relationship, error)
	StartTransfer(ctx context.Context, relationshipUUID string) (*ontap.JobRef, error)
	PatchRelationshipState(ctx context.Context, uuid, state string) (*ontap.JobRef, error)
}

// JobWaiter observes an accepted asynchronous request to completion.
type JobWaiter interface {
	Wait(ctx context.Context, ref *ontap.JobRef) (jobs.Result, error)
}

// Machine drives one relationship through its legal transitions. Every
// state-changing call is confirmed by polling, never trusted from the
// request's immediate response: the control plane is asynchronous and
// "accepted" does not mean "applied".
type Machine struct {
	api     API
	watcher JobWaiter
	backoff client.Backoff
	log     logrus.FieldLogger

	// QuiesceBeforeBreak makes Break from Settled pause the relationship
	// first, so it is not actively transferring when broken. Disabling it
	// matches older tooling that broke straight from Settled.
	QuiesceBeforeBreak bool
}

// NewMachine returns a Machine using the given polling budget for both job
// watching and direct state confirmation.
func NewMachine(api API, watcher JobWaiter, backoff client.Backoff, log logrus.FieldLogger) *Machine {
	return &Machine{
		api:                api,
		watcher:            watcher,
		backoff:            backoff,
		log:                log,
		QuiesceBeforeBreak: true,
	}
}

// Update triggers an update transfer on a settled relationship and waits for
// it to settle again. The returned observation is the confirmed post-update
// state. A TimedOutError means the outcome is indeterminate and the
// relationship was left as last observed.
func (m *Machine) Update(ctx context.Context, relationshipUUID string) (*ontap.Relationship, error) {
	relationship, err := m.requireState(ctx, "update", relationshipUUID, StateSettled)
	if err != nil {
		return nil, err
	}

	log := m.log.WithFields(logrus.Fields{
		"relationship": relationship.Destination.Path,
		"operation":    "update",
	})
	log.Info("Triggering update transfer")

	jobRef, err := m.api.StartTransfer(ctx, relationshipUUID)
	if err != nil {
		return nil, errors.Wrapf(err, "error triggering transfer for relationship %s", relationship.Destination.Path)
	}

	result, err := m.watcher.Wait(ctx, jobRef)
	if err != nil {
		return nil, err
	}
	if result.Outcome == jobs.OutcomeFailed {
		return nil, errors.Errorf("update transfer for relationship %s failed: %s", relationship.Destination.Path, result.Message)
	}

	// Settled again with no transfer in flight is the stable post-update
	// state. A timed-out job watch falls through to the direct poll: the
	// transfer may well have completed.
	confirmed, err := m.waitForState(ctx, "update", relationshipUUID, StateSettled, map[State]bool{
		StateSynchronizing: true,
	}, true)
	if err != nil {
		return confirmed, err
	}

	log.Info("Update transfer complete; relationship settled")
	return confirmed, nil
}

// Quiesce pauses new transfers on a settled relationship. Both controller
// vocabularies for the pause terminal state are accepted as confirmation.
func (m *Machine) Quiesce(ctx context.Context, relationshipUUID string) (*ontap.Relationship, error) {
	relationship, err := m.requireState(ctx, "quiesce", relationshipUUID, StateSettled)
	if err != nil {
		return nil, err
	}

	log := m.log.WithFields(logrus.Fields{
		"relationship": relationship.Destination.Path,
		"operation":    "quiesce",
	})
	log.Info("Pausing relationship")

	return m.transition(ctx, "quiesce", relationshipUUID, ontap.RelationshipStatePaused, StatePaused, map[State]bool{
		StateSettled:   true,
		StateQuiescing: true,
	})
}

// Break severs the relationship, making the destination writable. From
// Settled it quiesces first when the policy requires it; from Paused it
// breaks directly. Any other state is a failed precondition and no
// state-changing request is issued.
func (m *Machine) Break(ctx context.Context, relationshipUUID string) (*ontap.Relationship, error) {
	relationship, err := m.requireState(ctx, "break", relationshipUUID, StateSettled, StatePaused)
	if err != nil {
		return nil, err
	}

	log := m.log.WithFields(logrus.Fields{
		"relationship": relationship.Destination.Path,
		"operation":    "break",
	})

	if StateOf(relationship) == StateSettled && m.QuiesceBeforeBreak {
		log.Info("Relationship is settled; quiescing before break")
		if _, err := m.Quiesce(ctx, relationshipUUID); err != nil {
			return nil, err
		}
	}

	log.Info("Breaking relationship")

	confirmed, err := m.transition(ctx, "break", relationshipUUID, ontap.RelationshipStateBrokenOff, StateBroken, map[State]bool{
		StateSettled:  true,
		StatePaused:   true,
		StateBreaking: true,
	})
	if err != nil {
		return confirmed, err
	}

	log.Info("Relationship broken; destination is writable")
	return confirmed, nil
}

// requireState re-reads the relationship immediately before acting and
// checks it is in one of the allowed states.
func (m *Machine) requireState(ctx context.Context, operation, relationshipUUID string, allowed ...State) (*ontap.Relationship, error) {
	relationship, err := m.api.GetRelationship(ctx, relationshipUUID)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading relationship %s", relationshipUUID)
	}

	actual := StateOf(relationship)
	for _, state := range allowed {
		if actual == state {
			return relationship, nil
		}
	}

	return nil, errors.WithStack(&PreconditionFailedError{
		Operation:    operation,
		Relationship: relationship.Destination.Path,
		Required:     allowed,
		Actual:       actual,
		APIState:     relationship.State,
	})
}

// transition patches the relationship to apiTarget, watches the returned
// job if any, then confirms the abstract target state by direct poll.
func (m *Machine) transition(ctx context.Context, operation, relationshipUUID, apiTarget string, target State, inProgress map[State]bool) (*ontap.Relationship, error) {
	jobRef, err := m.api.PatchRelationshipState(ctx, relationshipUUID, apiTarget)
	if err != nil {
		return nil, errors.Wrapf(err, "error requesting %s of relationship %s", operation, relationshipUUID)
	}

	result, err := m.watcher.Wait(ctx, jobRef)
	if err != nil {
		return nil, err
	}
	if result.Outcome == jobs.OutcomeFailed {
		return nil, errors.Errorf("%s job for relationship %s failed: %s", operation, relationshipUUID, result.Message)
	}

	// Synchronous completion and job timeout both land here: the resource
	// state is the source of truth either way.
	return m.waitForState(ctx, operation, relationshipUUID, target, inProgress, false)
}

// waitForState polls the relationship until the target state is observed, an
// off-vocabulary state appears, or the attempt budget is spent. When
// requireIdleTransfer is set, the target only counts once no transfer is in
// flight.
func (m *Machine) waitForState(ctx context.Context, operation, relationshipUUID string, target State, inProgress map[State]bool, requireIdleTransfer bool) (*ontap.Relationship, error) {
	var last *ontap.Relationship

	for attempt := 0; attempt < m.backoff.MaxAttempts; attempt++ {
		relationship, err := m.api.GetRelationship(ctx, relationshipUUID)
		switch {
		case err != nil && client.IsRetriable(err):
			m.log.WithError(err).Debug("Transient error polling relationship state")
		case err != nil:
			return last, errors.Wrapf(err, "error polling relationship %s", relationshipUUID)
		default:
			last = relationship
			observed := StateOf(relationship)

			if observed == target && (!requireIdleTransfer || transferIdle(relationship)) {
				return relationship, nil
			}

			// The prior state lingering and known in-progress states are
			// normal while the controller applies the change; anything
			// else is reported rather than looped on.
			if observed != target && !inProgress[observed] {
				return relationship, errors.WithStack(&UnexpectedStateError{
					Operation:    operation,
					Relationship: relationship.Destination.Path,
					Observed:     relationship.State,
				})
			}

			m.log.WithFields(logrus.Fields{
				"state":     relationship.State,
				"operation": operation,
			}).Debug("Relationship not yet in target state")
		}

		if attempt == m.backoff.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return last, errors.WithStack(ctx.Err())
		case <-time.After(m.backoff.Interval):
		}
	}

	timedOut := &TimedOutError{
		Operation:    operation,
		Relationship: relationshipUUID,
		LastObserved: StateUnknown,
	}
	if last != nil {
		timedOut.Relationship = last.Destination.Path
		timedOut.LastObserved = StateOf(last)
		timedOut.APIState = last.State
	}
	return last, errors.WithStack(timedOut)
}
