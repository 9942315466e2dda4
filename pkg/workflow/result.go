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

package workflow

import (
	"github.com/google/uuid"
)

// StepStatus is the outcome of one workflow step.
type StepStatus string

const (
	StepCompleted StepStatus = "Completed"
	StepFailed    StepStatus = "Failed"
	// StepSkipped marks steps abandoned because an earlier step failed.
	StepSkipped StepStatus = "Skipped"
	// StepIndeterminate marks a step whose effect could not be confirmed
	// within the wait budget. It is neither success nor failure.
	StepIndeterminate StepStatus = "Indeterminate"
)

// Step is the structured record of one workflow step: the operation name,
// the resource it acted on, the last observed state, and the failure if
// any. Callers (CLI, logs, tests) render these as needed; workflows never
// print.
type Step struct {
	Name          string
	Resource      string
	ObservedState string
	Status        StepStatus
	Err           error
}

// Result is the record of one workflow invocation.
type Result struct {
	// ID correlates every log line and step of one invocation.
	ID       string
	Workflow string
	Steps    []Step
}

func newResult(workflow string) *Result {
	return &Result{
		ID:       uuid.NewString(),
		Workflow: workflow,
	}
}

func (r *Result) add(step Step) {
	r.Steps = append(r.Steps, step)
}

// Succeeded reports whether every step completed.
func (r *Result) Succeeded() bool {
	for _, step := range r.Steps {
		if step.Status != StepCompleted {
			return false
		}
	}
	return len(r.Steps) > 0
}

// FirstError returns the first step failure, if any.
func (r *Result) FirstError() error {
	for _, step := range r.Steps {
		if step.Err != nil {
			return step.Err
		}
	}
	return nil
}
