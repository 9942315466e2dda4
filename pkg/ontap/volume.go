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

	"github.com/pkg/errors"

	"github.com/mirrorctl/mirrorctl/pkg/client"
)

// GetVolume returns the volume with the given name in the given SVM.
func (c *Client) GetVolume(ctx context.Context, svm, name string) (*Volume, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("svm.name", svm)
	query.Set("fields", "uuid,name,svm,clone")

	var volumes collection[Volume]
	if err := c.rest.Get(ctx, "storage/volumes", query, &volumes); err != nil {
		return nil, err
	}
	if len(volumes.Records) == 0 {
		return nil, client.NewNotFound(fmt.Sprintf("volume %s:%s", svm, name))
	}

	return &volumes.Records[0], nil
}

// CreateVolume posts a volume spec (used for clone derivation) and returns
// the job reference when the controller accepts the request asynchronously.
func (c *Client) CreateVolume(ctx context.Context, volume *Volume) (*JobRef, error) {
	var accepted jobEnvelope
	if err := c.rest.Post(ctx, "storage/volumes", volume, &accepted); err != nil {
		return nil, err
	}
	return accepted.Job, nil
}

// ListClones returns all flexclone volumes derived from the named parent.
func (c *Client) ListClones(ctx context.Context, svm, parentName string) ([]Volume, error) {
	query := url.Values{}
	query.Set("svm.name", svm)
	query.Set("clone.is_flexclone", "true")
	query.Set("clone.parent_volume.name", parentName)
	query.Set("fields", "uuid,name,clone")

	var volumes collection[Volume]
	if err := c.rest.Get(ctx, "storage/volumes", query, &volumes); err != nil {
		return nil, err
	}
	return volumes.Records, nil
}

// DeleteVolume deletes a volume by uuid.
func (c *Client) DeleteVolume(ctx context.Context, uuid string) (*JobRef, error) {
	if uuid == "" {
		return nil, errors.New("volume uuid is required")
	}
	var accepted jobEnvelope
	if err := c.rest.Delete(ctx, "storage/volumes/"+uuid, &accepted); err != nil {
		return nil, err
	}
	return accepted.Job, nil
}
