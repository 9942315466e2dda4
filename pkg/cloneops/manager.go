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

// Package cloneops derives writable volume clones from snapshots and
// re-identifies the block devices they expose, so host initiators treat a
// clone as interchangeable with its parent.
package cloneops

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/jobs"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// API is the slice of control-plane operations clone derivation and
// identity remapping need.
type API interface {
	GetVolume(ctx context.Context, svm, name string) (*ontap.Volume, error)
	CreateVolume(ctx context.Context, volume *ontap.Volume) (*ontap.JobRef, error)
	FindSnapshot(ctx context.Context, volumeUUID, name string) (*ontap.Snapshot, error)
	ListLUNs(ctx context.Context, svm, pathPrefix, state string) ([]ontap.LUN, error)
	GetLUN(ctx context.Context, uuid string) (*ontap.LUN, error)
	SetLUNEnabled(ctx context.Context, uuid string, enabled bool) error
	SetLUNSerial(ctx context.Context, uuid, serial string) error
	ListLunMaps(ctx context.Context, lunName, igroup string) ([]ontap.LunMap, error)
	CreateLunMap(ctx context.Context, lunMap *ontap.LunMap) error
}

// JobWaiter observes an accepted asynchronous request to completion.
type JobWaiter interface {
	Wait(ctx context.Context, ref *ontap.JobRef) (jobs.Result, error)
}

// Manager owns clone derivation and LUN identity remapping.
type Manager struct {
	api     API
	watcher JobWaiter
	backoff client.Backoff
	log     logrus.FieldLogger

	// now is swappable so auto-generated clone names are testable.
	now func() time.Time
}

// NewManager returns a Manager using the given polling budget for
// confirmation loops.
func NewManager(api API, watcher JobWaiter, backoff client.Backoff, log logrus.FieldLogger) *Manager {
	return &Manager{
		api:     api,
		watcher: watcher,
		backoff: backoff,
		log:     log,
		now:     time.Now,
	}
}

// OfflineRequiredError reports a LUN that could not be confirmed offline
// before a serial-number rewrite. The serial is never mutated while the LUN
// is online, so the rewrite was not attempted.
type OfflineRequiredError struct {
	LUN      string
	Observed string
}

func (e *OfflineRequiredError) Error() string {
	return fmt.Sprintf("LUN %s must be offline before its serial number can be rewritten; observed state %q", e.LUN, e.Observed)
}
