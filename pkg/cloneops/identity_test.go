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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrorctl/mirrorctl/pkg/builder"
	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/jobs"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

func seedLUNPair(api *fakeCloneAPI) {
	api.addLUN(builder.ForLUN("parent-lun-1", "/vol/datavol1/lun0", "ABCD1234").Result())
	api.addLUN(builder.ForLUN("clone-lun-1", "/vol/clone1/lun0", "ZZZZ9999").Result())
}

func TestRemapIdentityCopiesParentSerial(t *testing.T) {
	api := newFakeCloneAPI()
	seedLUNPair(api)

	m := newTestManager(api, jobs.OutcomeSucceeded)

	remaps, err := m.RemapIdentity(context.Background(), "orapgona", "datavol1", "clone1")

	require.NoError(t, err)
	require.Len(t, remaps, 1)
	assert.Equal(t, "/vol/clone1/lun0", remaps[0].LUN)
	assert.Equal(t, "/vol/datavol1/lun0", remaps[0].ParentLUN)
	assert.Equal(t, "ABCD1234", remaps[0].SerialNumber)
	assert.Equal(t, ontap.LUNStateOnline, remaps[0].FinalState)

	// The clone LUN now carries the parent's identity and is back online.
	clone, err := api.GetLUN(context.Background(), "clone-lun-1")
	require.NoError(t, err)
	assert.Equal(t, "ABCD1234", clone.SerialNumber)
	assert.Equal(t, ontap.LUNStateOnline, clone.Status.State)
}

func TestRemapIdentityRewritesSerialOnlyWhileOffline(t *testing.T) {
	api := newFakeCloneAPI()
	seedLUNPair(api)

	m := newTestManager(api, jobs.OutcomeSucceeded)

	_, err := m.RemapIdentity(context.Background(), "orapgona", "datavol1", "clone1")
	require.NoError(t, err)

	// The mutation order is fixed: offline, then serial rewrite, then
	// online. No initiator can observe a half-rewritten identity.
	assert.Equal(t, []string{
		"offline clone-lun-1",
		"serial clone-lun-1",
		"online clone-lun-1",
	}, api.ops)
}

func TestRemapIdentityRefusesToRewriteOnlineLUN(t *testing.T) {
	api := newFakeCloneAPI()
	seedLUNPair(api)
	api.allowOffline = false

	m := newTestManager(api, jobs.OutcomeSucceeded)

	_, err := m.RemapIdentity(context.Background(), "orapgona", "datavol1", "clone1")

	require.Error(t, err)
	var offlineErr *OfflineRequiredError
	require.ErrorAs(t, err, &offlineErr)
	assert.Equal(t, "/vol/clone1/lun0", offlineErr.LUN)
	assert.Equal(t, ontap.LUNStateOnline, offlineErr.Observed)

	// The serial was never touched.
	clone, getErr := api.GetLUN(context.Background(), "clone-lun-1")
	require.NoError(t, getErr)
	assert.Equal(t, "ZZZZ9999", clone.SerialNumber)
	for _, op := range api.ops {
		assert.NotEqual(t, "serial clone-lun-1", op)
	}
}

func TestRemapIdentityFailsWhenParentHasNoOnlineLUNs(t *testing.T) {
	api := newFakeCloneAPI()
	api.addLUN(builder.ForLUN("parent-lun-1", "/vol/datavol1/lun0", "ABCD1234").Offline().Result())

	m := newTestManager(api, jobs.OutcomeSucceeded)

	_, err := m.RemapIdentity(context.Background(), "orapgona", "datavol1", "clone1")

	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
}

func TestRemapIdentityFailsWhenCloneLUNMissing(t *testing.T) {
	api := newFakeCloneAPI()
	api.addLUN(builder.ForLUN("parent-lun-1", "/vol/datavol1/lun0", "ABCD1234").Result())

	m := newTestManager(api, jobs.OutcomeSucceeded)

	_, err := m.RemapIdentity(context.Background(), "orapgona", "datavol1", "clone1")

	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Contains(t, err.Error(), "/vol/clone1/lun0")
}

func TestEnsureMappingsIsIdempotent(t *testing.T) {
	api := newFakeCloneAPI()
	m := newTestManager(api, jobs.OutcomeSucceeded)

	first, err := m.EnsureMappings(context.Background(), "orapgona", "/vol/clone1/lun0", []string{"ig_a", "ig_b"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].Created)
	assert.True(t, first[1].Created)
	assert.Equal(t, 2, api.lunMapCreates)

	// A second invocation finds the mappings in place and creates nothing.
	second, err := m.EnsureMappings(context.Background(), "orapgona", "/vol/clone1/lun0", []string{"ig_a", "ig_b"})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.False(t, second[0].Created)
	assert.False(t, second[1].Created)
	assert.Equal(t, 2, api.lunMapCreates)
}

func TestEnsureMappingsSkipsExistingAndCreatesMissing(t *testing.T) {
	api := newFakeCloneAPI()
	api.lunMaps = []ontap.LunMap{{
		LUN:    ontap.Resource{Name: "/vol/clone1/lun0"},
		Igroup: ontap.Resource{Name: "ig_a"},
	}}

	m := newTestManager(api, jobs.OutcomeSucceeded)

	mappings, err := m.EnsureMappings(context.Background(), "orapgona", "/vol/clone1/lun0", []string{"ig_a", "ig_b"})

	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.False(t, mappings[0].Created)
	assert.True(t, mappings[1].Created)
	assert.Equal(t, 1, api.lunMapCreates)
}
