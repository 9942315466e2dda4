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

// VolumeBuilder builds Volume objects.
type VolumeBuilder struct {
	object *ontap.Volume
}

// ForVolume is the constructor for a VolumeBuilder.
func ForVolume(svm, name, uuid string) *VolumeBuilder {
	return &VolumeBuilder{
		object: &ontap.Volume{
			Name: name,
			UUID: uuid,
			SVM:  ontap.Resource{Name: svm},
		},
	}
}

// Result returns the built Volume.
func (b *VolumeBuilder) Result() *ontap.Volume {
	return b.object
}

// CloneOf marks the volume as a flexclone of the given parent volume and
// snapshot.
func (b *VolumeBuilder) CloneOf(parentVolume, parentSnapshot string) *VolumeBuilder {
	b.object.Clone = &ontap.VolumeClone{
		IsFlexClone:    true,
		ParentVolume:   ontap.Resource{Name: parentVolume},
		ParentSnapshot: ontap.Resource{Name: parentSnapshot},
	}
	return b
}

// JunctionPath sets the volume's NAS junction path.
func (b *VolumeBuilder) JunctionPath(path string) *VolumeBuilder {
	b.object.NAS = &ontap.VolumeNAS{Path: path}
	return b
}
