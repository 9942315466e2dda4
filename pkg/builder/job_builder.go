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

package builder

import (
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// JobBuilder builds Job objects.
type JobBuilder struct {
	object *ontap.Job
}

// ForJob is the constructor for a JobBuilder.
func ForJob(uuid string) *JobBuilder {
	return &JobBuilder{
		object: &ontap.Job{UUID: uuid},
	}
}

// Result returns the built Job.
func (b *JobBuilder) Result() *ontap.Job {
	return b.object
}

// State sets the Job's state.
func (b *JobBuilder) State(state string) *JobBuilder {
	b.object.State = state
	return b
}

// Running marks the job as still in progress.
func (b *JobBuilder) Running() *JobBuilder {
	return b.State("running")
}

// Succeeded marks the job as terminally successful.
func (b *JobBuilder) Succeeded() *JobBuilder {
	return b.State(ontap.JobStateSuccess)
}

// Failed marks the job as terminally failed with the given message.
func (b *JobBuilder) Failed(message string) *JobBuilder {
	b.object.Message = message
	return b.State(ontap.JobStateFailure)
}

// Description sets the Job's description.
func (b *JobBuilder) Description(description string) *JobBuilder {
	b.object.Description = description
	return b
}
