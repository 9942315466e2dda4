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

// SnapshotBuilder builds Snapshot objects.
type SnapshotBuilder struct {
	object *ontap.Snapshot
}

// ForSnapshot is the constructor for a SnapshotBuilder.
func ForSnapshot(uuid, name string) *SnapshotBuilder {
	return &SnapshotBuilder{
		object: &ontap.Snapshot{
			Name: name,
			UUID: uuid,
		},
	}
}

// Result returns the built Snapshot.
func (b *SnapshotBuilder) Result() *ontap.Snapshot {
	return b.object
}

// Label sets the snapshot's replication label.
func (b *SnapshotBuilder) Label(label string) *SnapshotBuilder {
	b.object.SnapmirrorLabel = label
	return b
}
