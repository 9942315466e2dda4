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
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/jobs"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// cloneNameSeparator joins the snapshot name and timestamp in
// auto-generated clone names.
const cloneNameSeparator = "_CLONE_"

// cloneTimestampLayout is day-month-year_hour-minute-second, which makes
// auto-generated names practically unique per invocation.
const cloneTimestampLayout = "02012006_150405"

// CloneName returns the auto-generated name for a clone of the given
// snapshot at the given time.
func CloneName(snapshotName string, t time.Time) string {
	return snapshotName + cloneNameSeparator + t.Format(cloneTimestampLayout)
}

// DeriveClone creates a writable clone of parentVolume from snapshotName.
// If cloneName is empty a name is generated from the snapshot name and a
// timestamp. The returned volume is the confirmed clone after a read-verify
// poll; the caller's infrastructure owns it from here on.
func (m *Manager) DeriveClone(ctx context.Context, svm, parentVolume, snapshotName, cloneName string) (*ontap.Volume, error) {
	parent, err := m.api.GetVolume(ctx, svm, parentVolume)
	if err != nil {
		return nil, errors.Wrapf(err, "error resolving parent volume %s:%s", svm, parentVolume)
	}

	if _, err := m.api.FindSnapshot(ctx, parent.UUID, snapshotName); err != nil {
		return nil, errors.Wrapf(err, "error resolving snapshot %s on volume %s", snapshotName, parentVolume)
	}

	if cloneName == "" {
		cloneName = CloneName(snapshotName, m.now())
	}

	log := m.log.WithFields(logrus.Fields{
		"parent":   parentVolume,
		"snapshot": snapshotName,
		"clone":    cloneName,
	})
	log.Info("Creating volume clone")

	spec := &ontap.Volume{
		Name: cloneName,
		SVM:  ontap.Resource{Name: svm},
		Clone: &ontap.VolumeClone{
			IsFlexClone:    true,
			ParentVolume:   ontap.Resource{Name: parent.Name},
			ParentSnapshot: ontap.Resource{Name: snapshotName},
		},
		NAS: &ontap.VolumeNAS{Path: "/" + cloneName},
	}

	jobRef, err := m.api.CreateVolume(ctx, spec)
	if err != nil {
		if client.IsConflict(err) {
			return nil, errors.Wrapf(err, "clone name %s conflicts with an existing volume", cloneName)
		}
		return nil, errors.Wrapf(err, "error creating clone %s of volume %s", cloneName, parentVolume)
	}

	result, err := m.watcher.Wait(ctx, jobRef)
	if err != nil {
		return nil, err
	}
	if result.Outcome == jobs.OutcomeFailed {
		return nil, errors.Errorf("clone creation job for %s failed: %s", cloneName, result.Message)
	}

	// The create response only means "accepted". Confirm by reading the
	// clone back; indeterminate job outcomes resolve here too.
	clone, err := m.confirmVolume(ctx, svm, cloneName)
	if err != nil {
		return nil, err
	}

	log.Info("Volume clone created")
	return clone, nil
}

// confirmVolume polls until the named volume is readable.
func (m *Manager) confirmVolume(ctx context.Context, svm, name string) (*ontap.Volume, error) {
	var volume *ontap.Volume
	err := client.Retry(ctx, m.backoff, func(err error) bool {
		return client.IsNotFound(err) || client.IsRetriable(err)
	}, func() error {
		var err error
		volume, err = m.api.GetVolume(ctx, svm, name)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "clone %s:%s was accepted but never became readable", svm, name)
	}
	return volume, nil
}
