/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"os"

	"github.com/dashpay/platform-drive/internal/drivecli"
)

func main() {
	// On failure Cobra prints the usage message and error string, so we only
	// need to exit with a non-0 status
	if drivecli.Cmd().Execute() != nil {
		os.Exit(1)
	}
}
