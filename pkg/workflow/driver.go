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

// Package workflow sequences control-plane and host-side operations into
// the two end-to-end procedures this tool exists for: cutting over to a
// replicated volume, and deriving re-identified clones. Workflows return
// structured results; rendering is the caller's job.
package workflow

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/cloneops"
	"github.com/mirrorctl/mirrorctl/pkg/hostcmd"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// SourceAPI is the slice of control-plane reads that run against the
// source cluster. Everything else in a cutover runs against the
// destination cluster, reached through the dialer.
type SourceAPI interface {
	GetVolume(ctx context.Context, svm, name string) (*ontap.Volume, error)
	ListPeerRelationships(ctx context.Context) ([]ontap.Relationship, error)
}

// MirrorMachine drives relationship transitions on the destination
// cluster.
type MirrorMachine interface {
	Update(ctx context.Context, relationshipUUID string) (*ontap.Relationship, error)
	Break(ctx context.Context, relationshipUUID string) (*ontap.Relationship, error)
}

// DestinationAPI resolves the relationship handle on the destination
// cluster, where the full relationship record lives.
type DestinationAPI interface {
	FindRelationship(ctx context.Context, sourcePath, destinationPath string) (*ontap.Relationship, error)
}

// Destination bundles the destination-cluster collaborators a cutover
// needs once the destination has been resolved.
type Destination struct {
	API    DestinationAPI
	Mirror MirrorMachine
}

// DestinationDialer opens a session to the named destination SVM. The
// destination is only known after the peer-relationship index has been
// consulted, so it cannot be injected up front.
type DestinationDialer func(ctx context.Context, svm string) (*Destination, error)

// Cloner derives clones and rewrites their block-device identity.
type Cloner interface {
	DeriveClone(ctx context.Context, svm, parentVolume, snapshotName, cloneName string) (*ontap.Volume, error)
	RemapIdentity(ctx context.Context, svm, parentVolume, cloneVolume string) ([]cloneops.LunRemap, error)
	EnsureMappings(ctx context.Context, svm, lunName string, igroups []string) ([]cloneops.Mapping, error)
}

// Driver runs workflows. It owns sequencing and failure policy only; all
// storage and host behavior lives in the injected collaborators.
type Driver struct {
	source SourceAPI
	dial   DestinationDialer
	host   hostcmd.Reconciler
	clones Cloner
	log    logrus.FieldLogger

	// sleep is swappable so settle delays are testable.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDriver returns a Driver wired to the given collaborators. Any
// collaborator a workflow does not use may be nil.
func NewDriver(source SourceAPI, dial DestinationDialer, host hostcmd.Reconciler, clones Cloner, log logrus.FieldLogger) *Driver {
	return &Driver{
		source: source,
		dial:   dial,
		host:   host,
		clones: clones,
		log:    log,
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	case <-time.After(d):
		return nil
	}
}
