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

// Package ontap contains the typed read/create/update/action operations the
// orchestrator issues against the controller's resource API. Nothing in this
// package makes a decision; it shapes requests and decodes envelopes.
package ontap

import (
	"github.com/mirrorctl/mirrorctl/pkg/client"
)

// Client issues typed operations over a control-plane session.
type Client struct {
	rest client.Interface
}

// NewClient wraps a control-plane session.
func NewClient(rest client.Interface) *Client {
	return &Client{rest: rest}
}
