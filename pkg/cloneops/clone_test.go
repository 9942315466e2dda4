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

package cloneops

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrorctl/mirrorctl/pkg/builder"
	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/jobs"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
	"github.com/mirrorctl/mirrorctl/pkg/test"
)

func TestCloneName(t *testing.T) {
	at := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "SNAP1_CLONE_01012025_120000", CloneName("SNAP1", at))

	// Day-month ordering, zero padded.
	at = time.Date(2024, time.November, 3, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "nightly_CLONE_03112024_090507", CloneName("nightly", at))
}

func newTestManager(api API, outcome jobs.Outcome) *Manager {
	backoff := client.Backoff{Interval: time.Millisecond, MaxAttempts: 5}
	m := NewManager(api, &fakeWaiter{result: jobs.Result{Outcome: outcome}}, backoff, test.NewLogger())
	m.now = func() time.Time { return time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC) }
	return m
}

type fakeWaiter struct {
	result jobs.Result
}

func (f *fakeWaiter) Wait(ctx context.Context, ref *ontap.JobRef) (jobs.Result, error) {
	return f.result, nil
}

func TestDeriveCloneCreatesFlexcloneSpec(t *testing.T) {
	api := newFakeCloneAPI()
	api.addVolume(builder.ForVolume("orapgona", "datavol1", "vol-uuid-1").Result())
	api.addSnapshot("vol-uuid-1", builder.ForSnapshot("snap-uuid-1", "SNAP1").Result())

	m := newTestManager(api, jobs.OutcomeSucceeded)

	clone, err := m.DeriveClone(context.Background(), "orapgona", "datavol1", "SNAP1", "")

	require.NoError(t, err)
	assert.Equal(t, "SNAP1_CLONE_01012025_120000", clone.Name)

	require.Len(t, api.createdVolumes, 1)
	spec := api.createdVolumes[0]
	require.NotNil(t, spec.Clone)
	assert.True(t, spec.Clone.IsFlexClone)
	assert.Equal(t, "datavol1", spec.Clone.ParentVolume.Name)
	assert.Equal(t, "SNAP1", spec.Clone.ParentSnapshot.Name)
	require.NotNil(t, spec.NAS)
	assert.Equal(t, "/SNAP1_CLONE_01012025_120000", spec.NAS.Path)
}

func TestDeriveCloneHonorsExplicitName(t *testing.T) {
	api := newFakeCloneAPI()
	api.addVolume(builder.ForVolume("orapgona", "datavol1", "vol-uuid-1").Result())
	api.addSnapshot("vol-uuid-1", builder.ForSnapshot("snap-uuid-1", "SNAP1").Result())

	m := newTestManager(api, jobs.OutcomeSucceeded)

	clone, err := m.DeriveClone(context.Background(), "orapgona", "datavol1", "SNAP1", "report_copy")

	require.NoError(t, err)
	assert.Equal(t, "report_copy", clone.Name)
}

func TestDeriveCloneFailsForMissingSnapshot(t *testing.T) {
	api := newFakeCloneAPI()
	api.addVolume(builder.ForVolume("orapgona", "datavol1", "vol-uuid-1").Result())

	m := newTestManager(api, jobs.OutcomeSucceeded)

	_, err := m.DeriveClone(context.Background(), "orapgona", "datavol1", "SNAP1", "")

	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Empty(t, api.createdVolumes)
}

func TestDeriveCloneFailsWhenJobFails(t *testing.T) {
	api := newFakeCloneAPI()
	api.addVolume(builder.ForVolume("orapgona", "datavol1", "vol-uuid-1").Result())
	api.addSnapshot("vol-uuid-1", builder.ForSnapshot("snap-uuid-1", "SNAP1").Result())

	m := newTestManager(api, jobs.OutcomeFailed)

	_, err := m.DeriveClone(context.Background(), "orapgona", "datavol1", "SNAP1", "")

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed"))
}
