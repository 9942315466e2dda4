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

// Package builder provides fluent constructors for API objects in tests.
package builder

import (
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// RelationshipBuilder builds Relationship objects.
type RelationshipBuilder struct {
	object *ontap.Relationship
}

// ForRelationship is the constructor for a RelationshipBuilder.
func ForRelationship(uuid, sourcePath, destinationPath string) *RelationshipBuilder {
	return &RelationshipBuilder{
		object: &ontap.Relationship{
			UUID:        uuid,
			Source:      pathEndpoint(sourcePath),
			Destination: pathEndpoint(destinationPath),
		},
	}
}

func pathEndpoint(path string) ontap.PathEndpoint {
	endpoint := ontap.PathEndpoint{Path: path}
	for i := 0; i < len(path); i++ {
		if path[i] == ':' {
			endpoint.SVM = ontap.Resource{Name: path[:i]}
			break
		}
	}
	return endpoint
}

// Result returns the built Relationship.
func (b *RelationshipBuilder) Result() *ontap.Relationship {
	return b.object
}

// State sets the Relationship's state.
func (b *RelationshipBuilder) State(state string) *RelationshipBuilder {
	b.object.State = state
	return b
}

// Transfer sets the Relationship's transfer sub-state.
func (b *RelationshipBuilder) Transfer(state string) *RelationshipBuilder {
	b.object.Transfer = &ontap.TransferStatus{State: state}
	return b
}
