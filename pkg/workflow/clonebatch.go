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

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/cloneops"
)

// CloneAndRemapOptions parameterizes one clone batch.
type CloneAndRemapOptions struct {
	// SVM is the tenant owning the parent volumes and clones.
	SVM string

	// ParentVolumes are cloned independently; one volume failing does not
	// stop the rest.
	ParentVolumes []string

	// Snapshot is the snapshot name to clone from, present on every parent.
	Snapshot string

	// CloneName overrides the generated clone name. It is only legal with a
	// single parent volume, since names must be unique.
	CloneName string

	// Igroups are the initiator groups every clone LUN is mapped into.
	Igroups []string
}

// VolumeOutcome is the per-parent-volume record of a clone batch.
type VolumeOutcome struct {
	ParentVolume string
	Clone        string
	Remaps       []cloneops.LunRemap
	Mappings     []cloneops.Mapping
	Err          error
}

// BatchResult is the record of one clone batch invocation.
type BatchResult struct {
	ID      string
	Volumes []VolumeOutcome
}

// Succeeded reports whether every volume in the batch succeeded.
func (b *BatchResult) Succeeded() bool {
	for _, outcome := range b.Volumes {
		if outcome.Err != nil {
			return false
		}
	}
	return len(b.Volumes) > 0
}

// CloneAndRemap derives a clone of each parent volume from the named
// snapshot, rewrites the clone LUNs' serial numbers to their parents', and
// maps each clone LUN into the requested initiator groups. Volumes are
// processed independently: a failure is recorded in that volume's outcome
// and the batch moves on.
func (d *Driver) CloneAndRemap(ctx context.Context, opts CloneAndRemapOptions) *BatchResult {
	result := &BatchResult{ID: uuid.NewString()}

	log := d.log.WithFields(logrus.Fields{
		"workflow": "clone",
		"id":       result.ID,
		"svm":      opts.SVM,
		"snapshot": opts.Snapshot,
	})
	log.Info("Starting clone batch")

	if opts.CloneName != "" && len(opts.ParentVolumes) > 1 {
		result.Volumes = append(result.Volumes, VolumeOutcome{
			Err: errors.New("an explicit clone name requires exactly one parent volume"),
		})
		return result
	}

	for _, parent := range opts.ParentVolumes {
		outcome := d.cloneOne(ctx, opts, parent)
		result.Volumes = append(result.Volumes, outcome)

		volumeLog := log.WithField("volume", parent)
		if outcome.Err != nil {
			volumeLog.WithError(outcome.Err).Error("Clone of volume failed; continuing with the rest of the batch")
			continue
		}
		volumeLog.WithField("clone", outcome.Clone).Info("Volume cloned and remapped")
	}

	return result
}

func (d *Driver) cloneOne(ctx context.Context, opts CloneAndRemapOptions, parent string) VolumeOutcome {
	outcome := VolumeOutcome{ParentVolume: parent}

	clone, err := d.clones.DeriveClone(ctx, opts.SVM, parent, opts.Snapshot, opts.CloneName)
	if err != nil {
		outcome.Err = errors.Wrapf(err, "error cloning volume %s", parent)
		return outcome
	}
	outcome.Clone = clone.Name

	remaps, err := d.clones.RemapIdentity(ctx, opts.SVM, parent, clone.Name)
	outcome.Remaps = remaps
	if err != nil {
		outcome.Err = errors.Wrapf(err, "error remapping LUN identities of clone %s", clone.Name)
		return outcome
	}

	for _, remap := range remaps {
		mappings, err := d.clones.EnsureMappings(ctx, opts.SVM, remap.LUN, opts.Igroups)
		outcome.Mappings = append(outcome.Mappings, mappings...)
		if err != nil {
			outcome.Err = errors.Wrapf(err, "error mapping LUN %s", remap.LUN)
			return outcome
		}
	}

	return outcome
}
