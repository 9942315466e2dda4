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
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// PreconditionFailedError reports a transition requested from a state that
// is not eligible for it. It is fatal; no state-changing request was issued.
type PreconditionFailedError struct {
	Operation    string
	Relationship string
	Required     []State
	Actual       State
	APIState     string
}

func (e *PreconditionFailedError) Error() string {
	required := make([]string, len(e.Required))
	for i, s := range e.Required {
		required[i] = string(s)
	}
	return fmt.Sprintf("cannot %s relationship %s: state must be %s, but is %s (%q)",
		e.Operation, e.Relationship, strings.Join(required, " or "), e.Actual, e.APIState)
}

// IsPreconditionFailed reports whether err is a PreconditionFailedError.
func IsPreconditionFailed(err error) bool {
	var target *PreconditionFailedError
	return errors.As(err, &target)
}

// UnexpectedStateError reports an observed state outside the known
// vocabulary for the operation in progress. The verbatim API value is
// surfaced for diagnosis.
type UnexpectedStateError struct {
	Operation    string
	Relationship string
	Observed     string
}

func (e *UnexpectedStateError) Error() string {
	return fmt.Sprintf("unexpected relationship state %q observed while waiting for %s of %s",
		e.Observed, e.Operation, e.Relationship)
}

// IsUnexpectedState reports whether err is an UnexpectedStateError.
func IsUnexpectedState(err error) bool {
	var target *UnexpectedStateError
	return errors.As(err, &target)
}

// TimedOutError reports a bounded wait that elapsed without reaching the
// target state. The outcome is indeterminate: the relationship is left in
// its last observed state and the caller must re-check directly; this is
// never silently treated as success or failure.
type TimedOutError struct {
	Operation    string
	Relationship string
	LastObserved State
	APIState     string
}

func (e *TimedOutError) Error() string {
	return fmt.Sprintf("timed out waiting for %s of relationship %s; last observed state %s (%q) - outcome indeterminate",
		e.Operation, e.Relationship, e.LastObserved, e.APIState)
}

// IsTimedOut reports whether err is a TimedOutError.
func IsTimedOut(err error) bool {
	var target *TimedOutError
	return errors.As(err, &target)
}
