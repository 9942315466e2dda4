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

// LUNBuilder builds LUN objects.
type LUNBuilder struct {
	object *ontap.LUN
}

// ForLUN is the constructor for a LUNBuilder. The LUN starts online.
func ForLUN(uuid, name, serial string) *LUNBuilder {
	return &LUNBuilder{
		object: &ontap.LUN{
			Name:         name,
			UUID:         uuid,
			SerialNumber: serial,
			Status:       ontap.LUNStatus{State: ontap.LUNStateOnline},
		},
	}
}

// Result returns the built LUN.
func (b *LUNBuilder) Result() *ontap.LUN {
	return b.object
}

// State sets the LUN's observed state.
func (b *LUNBuilder) State(state string) *LUNBuilder {
	b.object.Status.State = state
	return b
}

// Offline marks the LUN offline.
func (b *LUNBuilder) Offline() *LUNBuilder {
	return b.State(ontap.LUNStateOffline)
}
