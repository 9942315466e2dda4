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

package ontap

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mirrorctl/mirrorctl/pkg/client"
)

// ListSnapshots returns the snapshots of the volume with the given uuid.
func (c *Client) ListSnapshots(ctx context.Context, volumeUUID string) ([]Snapshot, error) {
	var snapshots collection[Snapshot]
	if err := c.rest.Get(ctx, snapshotPath(volumeUUID), nil, &snapshots); err != nil {
		return nil, err
	}
	return snapshots.Records, nil
}

// FindSnapshot returns the named snapshot of the given volume.
func (c *Client) FindSnapshot(ctx context.Context, volumeUUID, name string) (*Snapshot, error) {
	query := url.Values{}
	query.Set("name", name)

	var snapshots collection[Snapshot]
	if err := c.rest.Get(ctx, snapshotPath(volumeUUID), query, &snapshots); err != nil {
		return nil, err
	}
	if len(snapshots.Records) == 0 {
		return nil, client.NewNotFound(fmt.Sprintf("snapshot %s", name))
	}
	return &snapshots.Records[0], nil
}

// CreateSnapshot creates a snapshot on the given volume.
func (c *Client) CreateSnapshot(ctx context.Context, volumeUUID string, snapshot *Snapshot) (*JobRef, error) {
	var accepted jobEnvelope
	if err := c.rest.Post(ctx, snapshotPath(volumeUUID), snapshot, &accepted); err != nil {
		return nil, err
	}
	return accepted.Job, nil
}

// DeleteSnapshot deletes a snapshot by uuid.
func (c *Client) DeleteSnapshot(ctx context.Context, volumeUUID, snapshotUUID string) (*JobRef, error) {
	var accepted jobEnvelope
	if err := c.rest.Delete(ctx, snapshotPath(volumeUUID)+"/"+snapshotUUID, &accepted); err != nil {
		return nil, err
	}
	return accepted.Job, nil
}

func snapshotPath(volumeUUID string) string {
	return fmt.Sprintf("storage/volumes/%s/snapshots", volumeUUID)
}
