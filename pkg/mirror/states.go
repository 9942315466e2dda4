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

// Package mirror models one replicated-volume relationship and the legal
// transitions between its states.
package mirror

import (
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// State is the abstract lifecycle state of a relationship. The controller's
// concrete vocabulary is mapped through stateFromAPI so call sites never
// branch on raw API strings.
type State string

const (
	StateUninitialized State = "Uninitialized"
	StateSynchronizing State = "Synchronizing"
	// StateSettled is the steady state ("snapmirrored"): mirror healthy and
	// idle, the only state an update transfer may be triggered from.
	StateSettled   State = "Settled"
	StateQuiescing State = "Quiescing"
	StatePaused    State = "Paused"
	StateBreaking  State = "Breaking"
	StateBroken    State = "Broken"
	StateFailed    State = "Failed"
	// StateUnknown marks an observation outside the known vocabulary.
	StateUnknown State = "Unknown"
)

// apiStates maps the controller's state names to abstract states. Two
// controller generations name the pause terminal state differently
// ("paused" vs "quiesced"); both map to StatePaused.
var apiStates = map[string]State{
	ontap.RelationshipStateSnapmirrored:  StateSettled,
	ontap.RelationshipStatePaused:        StatePaused,
	ontap.RelationshipStateQuiesced:      StatePaused,
	"quiescing":                          StateQuiescing,
	ontap.RelationshipStateBrokenOff:     StateBroken,
	ontap.RelationshipStateUninitialized: StateUninitialized,
	ontap.RelationshipStateSynchronizing: StateSynchronizing,
	ontap.RelationshipStateTransferring:  StateSynchronizing,
	"breaking":                           StateBreaking,
	"failed":                             StateFailed,
}

func stateFromAPI(apiState string) State {
	if state, ok := apiStates[apiState]; ok {
		return state
	}
	return StateUnknown
}

// StateOf returns the abstract state of a relationship observation.
func StateOf(relationship *ontap.Relationship) State {
	return stateFromAPI(relationship.State)
}

// transferIdle reports whether no transfer is in flight on the observation.
func transferIdle(relationship *ontap.Relationship) bool {
	if relationship.Transfer == nil {
		return true
	}
	switch relationship.Transfer.State {
	case "", ontap.TransferStateNone, ontap.TransferStateSuccess, ontap.TransferStateFailed:
		return true
	default:
		return false
	}
}
