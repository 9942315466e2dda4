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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mirrorctl/mirrorctl/pkg/builder"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

func TestStateFromAPI(t *testing.T) {
	tests := []struct {
		apiState string
		want     State
	}{
		{apiState: "snapmirrored", want: StateSettled},
		// Both controller generations' names for the pause terminal state.
		{apiState: "paused", want: StatePaused},
		{apiState: "quiesced", want: StatePaused},
		{apiState: "quiescing", want: StateQuiescing},
		{apiState: "broken_off", want: StateBroken},
		{apiState: "uninitialized", want: StateUninitialized},
		{apiState: "synchronizing", want: StateSynchronizing},
		{apiState: "transferring", want: StateSynchronizing},
		{apiState: "breaking", want: StateBreaking},
		{apiState: "failed", want: StateFailed},
		{apiState: "some_future_state", want: StateUnknown},
		{apiState: "", want: StateUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.apiState, func(t *testing.T) {
			assert.Equal(t, tc.want, stateFromAPI(tc.apiState))
		})
	}
}

func TestTransferIdle(t *testing.T) {
	base := func() *builder.RelationshipBuilder {
		return builder.ForRelationship("uuid1", "orapgona:datavol1", "orapgonb:datavol1_dp")
	}

	assert.True(t, transferIdle(base().Result()))
	assert.True(t, transferIdle(base().Transfer(ontap.TransferStateNone).Result()))
	assert.True(t, transferIdle(base().Transfer(ontap.TransferStateSuccess).Result()))
	assert.True(t, transferIdle(base().Transfer(ontap.TransferStateFailed).Result()))
	assert.False(t, transferIdle(base().Transfer("transferring").Result()))
}
