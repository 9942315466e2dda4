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
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrorctl/mirrorctl/pkg/builder"
	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/mirror"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
	"github.com/mirrorctl/mirrorctl/pkg/test"
)

type fakeSourceAPI struct {
	volumes map[string]*ontap.Volume
	peers   []ontap.Relationship
}

func (f *fakeSourceAPI) GetVolume(ctx context.Context, svm, name string) (*ontap.Volume, error) {
	if v, ok := f.volumes[svm+":"+name]; ok {
		return v, nil
	}
	return nil, client.NewNotFound("volume " + svm + ":" + name)
}

func (f *fakeSourceAPI) ListPeerRelationships(ctx context.Context) ([]ontap.Relationship, error) {
	return f.peers, nil
}

type fakeDestinationAPI struct {
	relationship *ontap.Relationship
}

func (f *fakeDestinationAPI) FindRelationship(ctx context.Context, sourcePath, destinationPath string) (*ontap.Relationship, error) {
	if f.relationship == nil {
		return nil, client.NewNotFound("relationship " + sourcePath + " -> " + destinationPath)
	}
	return f.relationship, nil
}

type fakeMirror struct {
	calls []string

	updateErr error
	breakErr  error
	// breakObserved is returned alongside breakErr, mimicking a timed-out
	// wait that still carries the last observation.
	breakObserved *ontap.Relationship
}

func (f *fakeMirror) Update(ctx context.Context, relationshipUUID string) (*ontap.Relationship, error) {
	f.calls = append(f.calls, "update")
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return builder.ForRelationship(relationshipUUID, "orapgona:datavol1", "orapgonb:datavol1_dp").
		State("snapmirrored").Result(), nil
}

func (f *fakeMirror) Break(ctx context.Context, relationshipUUID string) (*ontap.Relationship, error) {
	f.calls = append(f.calls, "break")
	if f.breakErr != nil {
		return f.breakObserved, f.breakErr
	}
	return builder.ForRelationship(relationshipUUID, "orapgona:datavol1", "orapgonb:datavol1_dp").
		State("broken_off").Result(), nil
}

type fakeHost struct {
	calls  []string
	failOn string
}

func (f *fakeHost) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeHost) RescanTransport(ctx context.Context) error  { return f.step("rescan") }
func (f *fakeHost) RefreshMultipath(ctx context.Context) error { return f.step("multipath") }
func (f *fakeHost) Mount(ctx context.Context, devicePath, mountPoint string) error {
	return f.step("mount " + devicePath + " " + mountPoint)
}

type cutoverFixture struct {
	source *fakeSourceAPI
	dest   *fakeDestinationAPI
	mirror *fakeMirror
	host   *fakeHost
	driver *Driver
	dialed []string
	slept  []time.Duration
}

func newCutoverFixture(t *testing.T) *cutoverFixture {
	t.Helper()

	fx := &cutoverFixture{
		source: &fakeSourceAPI{
			volumes: map[string]*ontap.Volume{
				"orapgona:datavol1": builder.ForVolume("orapgona", "datavol1", "vol-uuid-1").Result(),
			},
			peers: []ontap.Relationship{
				*builder.ForRelationship("rel-uuid-1", "orapgona:datavol1", "orapgonb:datavol1_dp").Result(),
			},
		},
		mirror: &fakeMirror{},
		host:   &fakeHost{},
	}
	fx.dest = &fakeDestinationAPI{
		relationship: builder.ForRelationship("rel-uuid-1", "orapgona:datavol1", "orapgonb:datavol1_dp").
			State("snapmirrored").Result(),
	}

	dial := func(ctx context.Context, svm string) (*Destination, error) {
		fx.dialed = append(fx.dialed, svm)
		return &Destination{API: fx.dest, Mirror: fx.mirror}, nil
	}

	fx.driver = NewDriver(fx.source, dial, fx.host, nil, test.NewLogger())
	fx.driver.sleep = func(ctx context.Context, d time.Duration) error {
		fx.slept = append(fx.slept, d)
		return nil
	}

	return fx
}

func defaultCutoverOptions() CutoverOptions {
	return CutoverOptions{
		SVM:             "orapgona",
		Volume:          "datavol1",
		DevicePath:      "/dev/mapper/datavol1",
		MountPoint:      "/oradata",
		PostBreakSettle: 10 * time.Second,
		PreMountSettle:  5 * time.Second,
	}
}

func stepStatuses(result *Result) map[string]StepStatus {
	statuses := make(map[string]StepStatus, len(result.Steps))
	for _, step := range result.Steps {
		statuses[step.Name] = step.Status
	}
	return statuses
}

func TestCutoverHappyPath(t *testing.T) {
	fx := newCutoverFixture(t)

	result := fx.driver.Cutover(context.Background(), defaultCutoverOptions())

	assert.True(t, result.Succeeded())
	assert.NotEmpty(t, result.ID)
	require.Len(t, result.Steps, 7)

	// Control-plane work runs on the destination SVM named by the peer
	// index, then the host is reconciled in order.
	assert.Equal(t, []string{"orapgonb"}, fx.dialed)
	assert.Equal(t, []string{"update", "break"}, fx.mirror.calls)
	assert.Equal(t, []string{"rescan", "multipath", "mount /dev/mapper/datavol1 /oradata"}, fx.host.calls)
	assert.Equal(t, []time.Duration{10 * time.Second, 5 * time.Second}, fx.slept)
}

func TestCutoverFailsForUnknownVolume(t *testing.T) {
	fx := newCutoverFixture(t)

	opts := defaultCutoverOptions()
	opts.Volume = "nope"
	result := fx.driver.Cutover(context.Background(), opts)

	assert.False(t, result.Succeeded())
	statuses := stepStatuses(result)
	assert.Equal(t, StepFailed, statuses[StepValidateSource])
	assert.Equal(t, StepSkipped, statuses[StepBreak])
	assert.Equal(t, StepSkipped, statuses[StepMountFilesystem])

	// Nothing was dialed or mutated.
	assert.Empty(t, fx.dialed)
	assert.Empty(t, fx.mirror.calls)
	assert.Empty(t, fx.host.calls)
}

func TestCutoverFailsWhenVolumeHasNoDestination(t *testing.T) {
	fx := newCutoverFixture(t)
	fx.source.peers = nil

	result := fx.driver.Cutover(context.Background(), defaultCutoverOptions())

	assert.False(t, result.Succeeded())
	statuses := stepStatuses(result)
	assert.Equal(t, StepCompleted, statuses[StepValidateSource])
	assert.Equal(t, StepFailed, statuses[StepResolveTarget])
	assert.Empty(t, fx.mirror.calls)
}

func TestCutoverAbortsAfterUpdateFailure(t *testing.T) {
	fx := newCutoverFixture(t)
	fx.mirror.updateErr = errors.New("transfer failed")

	result := fx.driver.Cutover(context.Background(), defaultCutoverOptions())

	assert.False(t, result.Succeeded())
	statuses := stepStatuses(result)
	assert.Equal(t, StepFailed, statuses[StepUpdate])
	assert.Equal(t, StepSkipped, statuses[StepBreak])
	assert.Equal(t, StepSkipped, statuses[StepRescanTransport])

	// Break was never requested and the host was never touched.
	assert.Equal(t, []string{"update"}, fx.mirror.calls)
	assert.Empty(t, fx.host.calls)
}

func TestCutoverTimedOutBreakIsIndeterminate(t *testing.T) {
	fx := newCutoverFixture(t)
	lastObserved := builder.ForRelationship("rel-uuid-1", "orapgona:datavol1", "orapgonb:datavol1_dp").
		State("breaking").Result()
	fx.mirror.breakErr = errors.WithStack(&mirror.TimedOutError{
		Operation:    "break",
		Relationship: "orapgonb:datavol1_dp",
		LastObserved: mirror.StateBreaking,
		APIState:     "breaking",
	})
	fx.mirror.breakObserved = lastObserved

	result := fx.driver.Cutover(context.Background(), defaultCutoverOptions())

	assert.False(t, result.Succeeded())

	var breakStep Step
	for _, step := range result.Steps {
		if step.Name == StepBreak {
			breakStep = step
		}
	}
	assert.Equal(t, StepIndeterminate, breakStep.Status)
	assert.Equal(t, "breaking", breakStep.ObservedState)

	// A relationship in an unknown state must not be followed by host
	// mutations.
	assert.Empty(t, fx.host.calls)
}

func TestCutoverAbortsAfterHostFailure(t *testing.T) {
	fx := newCutoverFixture(t)
	fx.host.failOn = "rescan"

	result := fx.driver.Cutover(context.Background(), defaultCutoverOptions())

	assert.False(t, result.Succeeded())
	statuses := stepStatuses(result)
	assert.Equal(t, StepCompleted, statuses[StepBreak])
	assert.Equal(t, StepFailed, statuses[StepRescanTransport])
	assert.Equal(t, StepSkipped, statuses[StepRefreshMultipath])
	assert.Equal(t, StepSkipped, statuses[StepMountFilesystem])

	assert.Equal(t, []string{"rescan"}, fx.host.calls)
}
