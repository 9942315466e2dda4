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

package cmd

import (
	"fmt"
	"os"

	"github.com/mirrorctl/mirrorctl/pkg/client"
)

// CheckError prints err to stderr and exits with code 1 if err is not nil.
// It is invoked for any error returned by a command's Complete, Validate, or
// Run.
func CheckError(err error) {
	if err == nil {
		return
	}

	msg := fmt.Sprintf("An error occurred: %v", err)
	if client.IsNotFound(err) {
		msg = fmt.Sprintf("Not found: %v", err)
	}

	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

// Exit prints msg (with optional args), plus a newline, to stderr and exits
// with code 1.
func Exit(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
