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
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/mirror"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// CutoverOptions parameterizes one cutover run.
type CutoverOptions struct {
	// SVM and Volume name the source volume being cut away from.
	SVM    string
	Volume string

	// DevicePath and MountPoint describe the host-side mount of the
	// now-writable destination.
	DevicePath string
	MountPoint string

	// PostBreakSettle is how long to wait after the break before rescanning
	// the transport, giving the controller time to expose the writable LUNs.
	PostBreakSettle time.Duration

	// PreMountSettle is how long to wait after the multipath refresh before
	// mounting.
	PreMountSettle time.Duration
}

// Cutover step names, in execution order.
const (
	StepValidateSource   = "validate source volume"
	StepResolveTarget    = "resolve destination"
	StepUpdate           = "update relationship"
	StepBreak            = "break relationship"
	StepRescanTransport  = "rescan transport"
	StepRefreshMultipath = "refresh multipath"
	StepMountFilesystem  = "mount filesystem"
)

// Cutover makes the replicated copy of a volume writable and mounted: it
// validates the source volume, resolves its replication destination, runs a
// final update transfer, breaks the relationship, and reconciles the host
// (rescan, multipath refresh, mount). The first failure aborts the
// remainder; there is no rollback, because every step is either idempotent
// or strictly forward-moving.
func (d *Driver) Cutover(ctx context.Context, opts CutoverOptions) *Result {
	result := newResult("cutover")
	sourcePath := opts.SVM + ":" + opts.Volume

	log := d.log.WithFields(logrus.Fields{
		"workflow": result.Workflow,
		"id":       result.ID,
		"source":   sourcePath,
	})
	log.Info("Starting cutover")

	if _, err := d.source.GetVolume(ctx, opts.SVM, opts.Volume); err != nil {
		result.add(failedStep(StepValidateSource, sourcePath, errors.Wrapf(err, "error validating source volume %s", sourcePath)))
		abort(result, StepResolveTarget, StepUpdate, StepBreak, StepRescanTransport, StepRefreshMultipath, StepMountFilesystem)
		return result
	}
	result.add(completedStep(StepValidateSource, sourcePath, ""))

	relationship, destination, err := d.resolveDestination(ctx, sourcePath)
	if err != nil {
		result.add(failedStep(StepResolveTarget, sourcePath, err))
		abort(result, StepUpdate, StepBreak, StepRescanTransport, StepRefreshMultipath, StepMountFilesystem)
		return result
	}
	result.add(completedStep(StepResolveTarget, relationship.Destination.Path, relationship.State))
	log = log.WithField("destination", relationship.Destination.Path)

	observed, err := destination.Mirror.Update(ctx, relationship.UUID)
	if err != nil {
		result.add(mirrorStep(StepUpdate, relationship.Destination.Path, observed, err))
		abort(result, StepBreak, StepRescanTransport, StepRefreshMultipath, StepMountFilesystem)
		return result
	}
	result.add(completedStep(StepUpdate, relationship.Destination.Path, observed.State))

	observed, err = destination.Mirror.Break(ctx, relationship.UUID)
	if err != nil {
		result.add(mirrorStep(StepBreak, relationship.Destination.Path, observed, err))
		abort(result, StepRescanTransport, StepRefreshMultipath, StepMountFilesystem)
		return result
	}
	result.add(completedStep(StepBreak, relationship.Destination.Path, observed.State))
	log.Info("Relationship broken; reconciling host")

	if err := d.sleep(ctx, opts.PostBreakSettle); err != nil {
		result.add(failedStep(StepRescanTransport, "", err))
		abort(result, StepRefreshMultipath, StepMountFilesystem)
		return result
	}
	if err := d.host.RescanTransport(ctx); err != nil {
		result.add(failedStep(StepRescanTransport, "", err))
		abort(result, StepRefreshMultipath, StepMountFilesystem)
		return result
	}
	result.add(completedStep(StepRescanTransport, "", ""))

	if err := d.host.RefreshMultipath(ctx); err != nil {
		result.add(failedStep(StepRefreshMultipath, "", err))
		abort(result, StepMountFilesystem)
		return result
	}
	result.add(completedStep(StepRefreshMultipath, "", ""))

	if err := d.sleep(ctx, opts.PreMountSettle); err != nil {
		result.add(failedStep(StepMountFilesystem, opts.MountPoint, err))
		return result
	}
	if err := d.host.Mount(ctx, opts.DevicePath, opts.MountPoint); err != nil {
		result.add(failedStep(StepMountFilesystem, opts.MountPoint, err))
		return result
	}
	result.add(completedStep(StepMountFilesystem, opts.MountPoint, ""))

	log.Info("Cutover complete")
	return result
}

// resolveDestination finds the relationship whose source is sourcePath in
// the source cluster's peer index, then dials the destination SVM and
// re-reads the full relationship record there.
func (d *Driver) resolveDestination(ctx context.Context, sourcePath string) (*ontap.Relationship, *Destination, error) {
	peers, err := d.source.ListPeerRelationships(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error listing peer relationships")
	}

	var peer *ontap.Relationship
	for i := range peers {
		if peers[i].Source.Path == sourcePath {
			peer = &peers[i]
			break
		}
	}
	if peer == nil {
		return nil, nil, errors.Errorf("volume %s has no replication destination", sourcePath)
	}

	destination, err := d.dial(ctx, peer.Destination.SVM.Name)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "error connecting to destination SVM %s", peer.Destination.SVM.Name)
	}

	relationship, err := destination.API.FindRelationship(ctx, sourcePath, peer.Destination.Path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "error reading relationship %s -> %s on the destination", sourcePath, peer.Destination.Path)
	}
	return relationship, destination, nil
}

func completedStep(name, resource, observedState string) Step {
	return Step{Name: name, Resource: resource, ObservedState: observedState, Status: StepCompleted}
}

func failedStep(name, resource string, err error) Step {
	return Step{Name: name, Resource: resource, Status: StepFailed, Err: err}
}

// mirrorStep classifies a failed relationship transition: a timed-out wait
// is indeterminate, not failed, and the last observation is carried along.
func mirrorStep(name, resource string, observed *ontap.Relationship, err error) Step {
	step := failedStep(name, resource, err)
	if observed != nil {
		step.ObservedState = observed.State
	}
	if mirror.IsTimedOut(err) {
		step.Status = StepIndeterminate
	}
	return step
}

func abort(result *Result, remaining ...string) {
	for _, name := range remaining {
		result.add(Step{Name: name, Status: StepSkipped})
	}
}
