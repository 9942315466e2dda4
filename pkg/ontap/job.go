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
	"net/url"
)

// GetJob reads one asynchronous job's status.
func (c *Client) GetJob(ctx context.Context, uuid string) (*Job, error) {
	query := url.Values{}
	query.Set("fields", "state,description,message")

	var job Job
	if err := c.rest.Get(ctx, "cluster/jobs/"+uuid, query, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
