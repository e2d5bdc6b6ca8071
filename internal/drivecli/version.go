/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package drivecli

import (
	"fmt"
	"runtime"

	"github.com/dashpay/platform-drive/common/metadata"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print drive version.",
		Long:  "Print current version of drive and the platform protocol versions it supports.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			_, err := fmt.Fprint(cmd.OutOrStdout(), GetInfo())
			return err
		},
	}
}

// GetInfo returns version information for drive.
func GetInfo() string {
	return fmt.Sprintf("%s:\n Version: %s\n Commit SHA: %s\n Go version: %s\n"+
		" OS/Arch: %s\n Protocol versions: %v\n",
		cmdRoot, metadata.Version, metadata.CommitSHA, runtime.Version(),
		fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH), version.Versions())
}
