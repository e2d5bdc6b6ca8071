/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package drivecli

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/dashpay/platform-drive/common/semaphore"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/staterepository/kvrepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/validation"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	transitionFuncName = "transition"
	transitionCmdDes   = "Operate on state transitions: validate."
)

func transitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   transitionFuncName,
		Short: transitionCmdDes,
		Long:  transitionCmdDes,
	}
	cmd.AddCommand(transitionValidateCmd())
	return cmd
}

func transitionValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <hex>",
		Short: "Validate a serialized state transition against the configured store.",
		Long: "Validate a hex encoded state transition against the configured store. " +
			"Valid transitions are applied unless validation.dryRun is set.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return errors.Wrap(err, "failed decoding state transition")
			}
			cmd.SilenceUsage = true
			return validateTransition(cmd, raw)
		},
	}
}

func validateTransition(cmd *cobra.Command, raw []byte) error {
	n, err := newNode()
	if err != nil {
		return err
	}
	defer n.close()

	store, err := n.openStore()
	if err != nil {
		return err
	}
	conf := n.config
	pv, err := version.Get(conf.Validation.ProtocolVersion)
	if err != nil {
		return err
	}
	ctx := context.Background()
	repo := kvrepository.New(store, pv)
	platform := &validation.Platform{
		Repository:      repo,
		ProtocolVersion: conf.Validation.ProtocolVersion,
		Config:          validation.Config{ProtocolVersionValidator: conf.ProtocolVersionValidator()},
		Metrics:         validation.NewMetrics(n.provider),
	}
	header, err := repo.FetchLatestPlatformBlockHeader(ctx, nil)
	if err != nil {
		return err
	}
	if header == nil {
		logger.Infof("No block header stored, validating at core chain locked height %d", conf.Core.ChainLockedHeight)
		platform.BlockInfo = &staterepository.BlockHeader{
			Time:                  staterepository.BlockTime{Seconds: time.Now().Unix()},
			CoreChainLockedHeight: conf.Core.ChainLockedHeight,
		}
	}

	var out *validationOutput
	if conf.Validation.DryRun {
		out, err = dryRunTransition(ctx, platform, pv, raw)
	} else {
		out, err = applyTransition(ctx, platform, conf.Validation.Concurrency, raw)
	}
	if err != nil {
		return err
	}
	if err := printYAML(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if !out.Valid {
		cmd.SilenceErrors = true
		return errInvalid
	}
	return nil
}

func applyTransition(ctx context.Context, p *validation.Platform, concurrency int, raw []byte) (*validationOutput, error) {
	bv := &validation.BlockValidator{
		Platform:  p,
		Semaphore: semaphore.New(concurrency),
	}
	result, err := bv.ValidateBlock(ctx, [][]byte{raw})
	if err != nil {
		return nil, err
	}
	return transitionOutput(result.Results[0], result.ExecutionContexts[0], false), nil
}

func dryRunTransition(ctx context.Context, p *validation.Platform, pv *version.PlatformVersion, raw []byte) (*validationOutput, error) {
	created, err := statetransition.NewFactory(pv).CreateFromBuffer(raw)
	if err != nil {
		return nil, err
	}
	ec := staterepository.NewExecutionContext()
	ec.EnableDryRun()
	if !created.IsValid() {
		return transitionOutput(consensus.NewValidationResultWithErrors[action.Action](created.ErrorList()...), ec, true), nil
	}
	result, err := validation.ProcessStateTransition(ctx, p, created.Data(), ec)
	if err != nil {
		return nil, err
	}
	return transitionOutput(result, ec, true), nil
}

func transitionOutput(result *consensus.ValidationResult[action.Action], ec *staterepository.ExecutionContext, dryRun bool) *validationOutput {
	out := newValidationOutput(result)
	out.DryRun = dryRun
	if result.IsValid() && result.HasData() {
		out.Action = result.Data().Name()
	}
	ops := &operationsCount{}
	for _, op := range ec.Operations() {
		switch op.(type) {
		case staterepository.ReadOperation:
			ops.Reads++
		case staterepository.WriteOperation:
			ops.Writes++
		}
	}
	out.Operations = ops
	return out
}
