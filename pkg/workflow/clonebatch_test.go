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

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrorctl/mirrorctl/pkg/builder"
	"github.com/mirrorctl/mirrorctl/pkg/cloneops"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
	"github.com/mirrorctl/mirrorctl/pkg/test"
)

type fakeCloner struct {
	deriveErrs map[string]error // parent volume -> error
	remapErrs  map[string]error // clone volume -> error
	mapErr     error

	derived []string
	mapped  []string
}

func (f *fakeCloner) DeriveClone(ctx context.Context, svm, parentVolume, snapshotName, cloneName string) (*ontap.Volume, error) {
	if err := f.deriveErrs[parentVolume]; err != nil {
		return nil, err
	}
	f.derived = append(f.derived, parentVolume)

	name := cloneName
	if name == "" {
		name = parentVolume + "_clone"
	}
	return builder.ForVolume(svm, name, "uuid-"+name).
		CloneOf(parentVolume, snapshotName).
		Result(), nil
}

func (f *fakeCloner) RemapIdentity(ctx context.Context, svm, parentVolume, cloneVolume string) ([]cloneops.LunRemap, error) {
	if err := f.remapErrs[cloneVolume]; err != nil {
		return nil, err
	}
	return []cloneops.LunRemap{{
		LUN:          "/vol/" + cloneVolume + "/lun0",
		ParentLUN:    "/vol/" + parentVolume + "/lun0",
		SerialNumber: "ABCD1234",
		FinalState:   ontap.LUNStateOnline,
	}}, nil
}

func (f *fakeCloner) EnsureMappings(ctx context.Context, svm, lunName string, igroups []string) ([]cloneops.Mapping, error) {
	if f.mapErr != nil {
		return nil, f.mapErr
	}
	var mappings []cloneops.Mapping
	for _, igroup := range igroups {
		f.mapped = append(f.mapped, lunName+" -> "+igroup)
		mappings = append(mappings, cloneops.Mapping{LUN: lunName, Igroup: igroup, Created: true})
	}
	return mappings, nil
}

func newCloneDriver(cloner *fakeCloner) *Driver {
	return NewDriver(nil, nil, nil, cloner, test.NewLogger())
}

func defaultCloneOptions() CloneAndRemapOptions {
	return CloneAndRemapOptions{
		SVM:           "orapgona",
		ParentVolumes: []string{"datavol1", "datavol2"},
		Snapshot:      "SNAP1",
		Igroups:       []string{"ig_a"},
	}
}

func TestCloneAndRemapHappyPath(t *testing.T) {
	cloner := &fakeCloner{}
	d := newCloneDriver(cloner)

	result := d.CloneAndRemap(context.Background(), defaultCloneOptions())

	assert.True(t, result.Succeeded())
	assert.NotEmpty(t, result.ID)
	require.Len(t, result.Volumes, 2)

	first := result.Volumes[0]
	assert.Equal(t, "datavol1", first.ParentVolume)
	assert.Equal(t, "datavol1_clone", first.Clone)
	require.Len(t, first.Remaps, 1)
	assert.Equal(t, "ABCD1234", first.Remaps[0].SerialNumber)
	require.Len(t, first.Mappings, 1)
	assert.True(t, first.Mappings[0].Created)

	assert.Equal(t, []string{"datavol1", "datavol2"}, cloner.derived)
	assert.Equal(t, []string{
		"/vol/datavol1_clone/lun0 -> ig_a",
		"/vol/datavol2_clone/lun0 -> ig_a",
	}, cloner.mapped)
}

func TestCloneAndRemapIsolatesVolumeFailures(t *testing.T) {
	cloner := &fakeCloner{
		deriveErrs: map[string]error{"datavol1": errors.New("aggregate full")},
	}
	d := newCloneDriver(cloner)

	result := d.CloneAndRemap(context.Background(), defaultCloneOptions())

	// The first volume failed; the second still completed.
	assert.False(t, result.Succeeded())
	require.Len(t, result.Volumes, 2)

	assert.Error(t, result.Volumes[0].Err)
	assert.Contains(t, result.Volumes[0].Err.Error(), "datavol1")
	assert.Empty(t, result.Volumes[0].Clone)

	assert.NoError(t, result.Volumes[1].Err)
	assert.Equal(t, "datavol2_clone", result.Volumes[1].Clone)
	assert.Equal(t, []string{"datavol2"}, cloner.derived)
}

func TestCloneAndRemapRecordsRemapFailure(t *testing.T) {
	cloner := &fakeCloner{
		remapErrs: map[string]error{"datavol1_clone": errors.New("lun offline refused")},
	}
	d := newCloneDriver(cloner)

	opts := defaultCloneOptions()
	opts.ParentVolumes = []string{"datavol1"}
	result := d.CloneAndRemap(context.Background(), opts)

	assert.False(t, result.Succeeded())
	require.Len(t, result.Volumes, 1)

	// The clone itself exists; the failure is attributed to the remap and no
	// mappings were attempted.
	assert.Equal(t, "datavol1_clone", result.Volumes[0].Clone)
	assert.Error(t, result.Volumes[0].Err)
	assert.Empty(t, cloner.mapped)
}

func TestCloneAndRemapRejectsExplicitNameForMultipleVolumes(t *testing.T) {
	cloner := &fakeCloner{}
	d := newCloneDriver(cloner)

	opts := defaultCloneOptions()
	opts.CloneName = "report_copy"
	result := d.CloneAndRemap(context.Background(), opts)

	assert.False(t, result.Succeeded())
	require.Len(t, result.Volumes, 1)
	assert.Error(t, result.Volumes[0].Err)
	assert.Empty(t, cloner.derived)
}

func TestCloneAndRemapExplicitNameSingleVolume(t *testing.T) {
	cloner := &fakeCloner{}
	d := newCloneDriver(cloner)

	opts := defaultCloneOptions()
	opts.ParentVolumes = []string{"datavol1"}
	opts.CloneName = "report_copy"
	result := d.CloneAndRemap(context.Background(), opts)

	assert.True(t, result.Succeeded())
	require.Len(t, result.Volumes, 1)
	assert.Equal(t, "report_copy", result.Volumes[0].Clone)
}

func TestBatchResultEmptyIsNotSuccess(t *testing.T) {
	result := &BatchResult{ID: "x"}
	assert.False(t, result.Succeeded())
}
