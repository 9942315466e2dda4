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
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// LunRemap records one clone LUN's identity rewrite.
type LunRemap struct {
	LUN          string
	ParentLUN    string
	SerialNumber string
	FinalState   string
}

// Mapping records one (LUN, initiator group) association attempt.
type Mapping struct {
	LUN     string
	Igroup  string
	Created bool
}

// defaultLogicalUnitNumber is used for every mapping this tool creates.
var defaultLogicalUnitNumber = 0

// RemapIdentity rewrites each clone LUN's serial number to its parent's,
// so host multipath software recognizes the clone as the device it already
// knows. The sequence per LUN is offline -> verify -> rewrite -> verify ->
// online -> verify: no initiator ever observes a LUN with a half-defined
// identity, because the serial only changes while the LUN is unreachable.
func (m *Manager) RemapIdentity(ctx context.Context, svm, parentVolume, cloneVolume string) ([]LunRemap, error) {
	parentPrefix := volumePathPrefix(parentVolume)
	clonePrefix := volumePathPrefix(cloneVolume)

	parentLUNs, err := m.api.ListLUNs(ctx, svm, parentPrefix, ontap.LUNStateOnline)
	if err != nil {
		return nil, errors.Wrapf(err, "error listing LUNs under %s", parentPrefix)
	}
	if len(parentLUNs) == 0 {
		return nil, client.NewNotFound(fmt.Sprintf("online LUNs under %s", parentPrefix))
	}

	cloneLUNs, err := m.api.ListLUNs(ctx, svm, clonePrefix, "")
	if err != nil {
		return nil, errors.Wrapf(err, "error listing LUNs under %s", clonePrefix)
	}

	// Clone LUNs correspond to parent LUNs by the path suffix after the
	// volume prefix.
	clonesBySuffix := make(map[string]*ontap.LUN, len(cloneLUNs))
	for i := range cloneLUNs {
		clonesBySuffix[strings.TrimPrefix(cloneLUNs[i].Name, clonePrefix)] = &cloneLUNs[i]
	}

	remaps := make([]LunRemap, 0, len(parentLUNs))
	for i := range parentLUNs {
		parent := &parentLUNs[i]
		suffix := strings.TrimPrefix(parent.Name, parentPrefix)

		clone, ok := clonesBySuffix[suffix]
		if !ok {
			return remaps, client.NewNotFound(fmt.Sprintf("clone LUN %s%s", clonePrefix, suffix))
		}

		remap, err := m.remapLUN(ctx, parent, clone)
		if err != nil {
			return remaps, err
		}
		remaps = append(remaps, *remap)
	}

	return remaps, nil
}

func (m *Manager) remapLUN(ctx context.Context, parent, clone *ontap.LUN) (*LunRemap, error) {
	log := m.log.WithFields(logrus.Fields{
		"lun":    clone.Name,
		"parent": parent.Name,
		"serial": parent.SerialNumber,
	})
	log.Info("Rewriting clone LUN identity")

	if err := m.api.SetLUNEnabled(ctx, clone.UUID, false); err != nil {
		return nil, errors.Wrapf(err, "error taking LUN %s offline", clone.Name)
	}
	if err := m.confirmLUNState(ctx, clone, ontap.LUNStateOffline); err != nil {
		return nil, errors.WithStack(&OfflineRequiredError{
			LUN:      clone.Name,
			Observed: lastObservedState(err),
		})
	}
	log.Debug("Clone LUN confirmed offline")

	if err := m.api.SetLUNSerial(ctx, clone.UUID, parent.SerialNumber); err != nil {
		return nil, errors.Wrapf(err, "error rewriting serial number of LUN %s", clone.Name)
	}

	// Verify the overwrite by re-reading before the LUN goes back online.
	rewritten, err := m.api.GetLUN(ctx, clone.UUID)
	if err != nil {
		return nil, errors.Wrapf(err, "error re-reading LUN %s after serial rewrite", clone.Name)
	}
	if rewritten.SerialNumber != parent.SerialNumber {
		return nil, errors.Errorf("serial rewrite of LUN %s did not take: have %q, want %q",
			clone.Name, rewritten.SerialNumber, parent.SerialNumber)
	}
	log.Debug("Serial number rewrite verified")

	if err := m.api.SetLUNEnabled(ctx, clone.UUID, true); err != nil {
		return nil, errors.Wrapf(err, "error bringing LUN %s online", clone.Name)
	}
	if err := m.confirmLUNState(ctx, clone, ontap.LUNStateOnline); err != nil {
		return nil, errors.Wrapf(err, "LUN %s did not come back online after serial rewrite", clone.Name)
	}
	log.Info("Clone LUN online with parent identity")

	return &LunRemap{
		LUN:          clone.Name,
		ParentLUN:    parent.Name,
		SerialNumber: parent.SerialNumber,
		FinalState:   ontap.LUNStateOnline,
	}, nil
}

// stateMismatchError carries the last observed state out of a failed
// confirmation poll.
type stateMismatchError struct {
	observed string
	want     string
}

func (e *stateMismatchError) Error() string {
	return fmt.Sprintf("LUN state is %q, want %q", e.observed, e.want)
}

func (m *Manager) confirmLUNState(ctx context.Context, lun *ontap.LUN, want string) error {
	return client.Retry(ctx, m.backoff, func(err error) bool {
		var mismatch *stateMismatchError
		return errors.As(err, &mismatch) || client.IsRetriable(err)
	}, func() error {
		observed, err := m.api.GetLUN(ctx, lun.UUID)
		if err != nil {
			return err
		}
		if observed.Status.State != want {
			return errors.WithStack(&stateMismatchError{observed: observed.Status.State, want: want})
		}
		return nil
	})
}

func lastObservedState(err error) string {
	var mismatch *stateMismatchError
	if errors.As(err, &mismatch) {
		return mismatch.observed
	}
	return "unknown"
}

// EnsureMappings maps the LUN into each initiator group, skipping groups
// the LUN is already mapped under. Invoking it twice for the same pair
// leaves exactly one mapping.
func (m *Manager) EnsureMappings(ctx context.Context, svm, lunName string, igroups []string) ([]Mapping, error) {
	mappings := make([]Mapping, 0, len(igroups))

	for _, igroup := range igroups {
		existing, err := m.api.ListLunMaps(ctx, lunName, igroup)
		if err != nil {
			return mappings, errors.Wrapf(err, "error checking mapping of LUN %s to igroup %s", lunName, igroup)
		}
		if len(existing) > 0 {
			m.log.WithFields(logrus.Fields{
				"lun":    lunName,
				"igroup": igroup,
			}).Debug("LUN already mapped; skipping")
			mappings = append(mappings, Mapping{LUN: lunName, Igroup: igroup, Created: false})
			continue
		}

		lunMap := &ontap.LunMap{
			SVM:               ontap.Resource{Name: svm},
			LUN:               ontap.Resource{Name: lunName},
			Igroup:            ontap.Resource{Name: igroup},
			LogicalUnitNumber: &defaultLogicalUnitNumber,
		}
		if err := m.api.CreateLunMap(ctx, lunMap); err != nil {
			return mappings, errors.Wrapf(err, "error mapping LUN %s to igroup %s", lunName, igroup)
		}

		m.log.WithFields(logrus.Fields{
			"lun":    lunName,
			"igroup": igroup,
		}).Info("LUN mapped to initiator group")
		mappings = append(mappings, Mapping{LUN: lunName, Igroup: igroup, Created: true})
	}

	return mappings, nil
}

func volumePathPrefix(volume string) string {
	return "/vol/" + volume + "/"
}
