/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package drivecli

import (
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/datacontract/validator"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	contractFuncName = "contract"
	contractCmdDes   = "Operate on data contracts: validate|id|inspect."
)

func contractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   contractFuncName,
		Short: contractCmdDes,
		Long:  contractCmdDes,
	}
	cmd.AddCommand(contractValidateCmd())
	cmd.AddCommand(contractIDCmd())
	cmd.AddCommand(contractInspectCmd())
	return cmd
}

func contractValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.json>",
		Short: "Validate a data contract in its JSON form.",
		Long:  "Validate a data contract in its JSON form and print the consensus errors found.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return validateContract(cmd, args[0])
		},
	}
}

func validateContract(cmd *cobra.Command, path string) error {
	n, err := newNode()
	if err != nil {
		return err
	}
	defer n.close()

	raw, err := readContract(path)
	if err != nil {
		return err
	}
	pv, err := version.Get(n.config.Validation.ProtocolVersion)
	if err != nil {
		return err
	}
	result, err := validator.New(n.config.ProtocolVersionValidator(), pv).Validate(raw)
	if err != nil {
		return errors.WithMessagef(err, "failed validating %s", path)
	}

	out := newValidationOutput(result)
	if err := printYAML(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if !out.Valid {
		cmd.SilenceErrors = true
		return errInvalid
	}
	return nil
}

// readContract parses the JSON form of a contract into its raw value with
// identifier fields decoded.
func readContract(path string) (value.Value, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, errors.Wrapf(err, "failed reading %s", path)
	}
	raw, err := value.FromJSON(b)
	if err != nil {
		return value.Value{}, errors.WithMessagef(err, "failed parsing %s", path)
	}
	if err := raw.ReplaceAtPaths(datacontract.IdentifierFields, value.ReplaceWithIdentifier); err != nil {
		return value.Value{}, errors.WithMessagef(err, "failed parsing %s", path)
	}
	return raw, nil
}

func contractIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Derive a data contract id from its owner and entropy.",
		Long:  "Derive a data contract id from its owner and entropy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return errors.New("the required parameter 'owner' is empty. Rerun the command with --owner")
			}
			if entropy == "" {
				return errors.New("the required parameter 'entropy' is empty. Rerun the command with --entropy")
			}
			cmd.SilenceUsage = true

			ownerID, err := identifier.FromString(owner, identifier.Base58)
			if err != nil {
				return err
			}
			e, err := hex.DecodeString(entropy)
			if err != nil {
				return errors.Wrap(err, "failed decoding entropy")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), datacontract.GenerateDataContractID(ownerID, e))
			return err
		},
	}
	attachFlags(cmd, []string{"owner", "entropy"})
	return cmd
}

func contractInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.json>",
		Short: "Print the document types and indices of a data contract.",
		Long:  "Print the document types of a data contract together with their indices and index tree.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return inspectContract(cmd, args[0])
		},
	}
	attachFlags(cmd, []string{"dump"})
	return cmd
}

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func inspectContract(cmd *cobra.Command, path string) error {
	n, err := newNode()
	if err != nil {
		return err
	}
	defer n.close()

	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed reading %s", path)
	}
	pv, err := version.Get(n.config.Validation.ProtocolVersion)
	if err != nil {
		return err
	}
	c, err := datacontract.FromJSON(b, pv)
	if err != nil {
		return errors.WithMessagef(err, "failed parsing %s", path)
	}
	v0, err := datacontract.AsV0(c)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Data contract %s version %d owned by %s\n", v0.ID(), v0.Version(), v0.OwnerID())
	types := v0.DocumentTypes()
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dt := types[name]
		fmt.Fprintf(w, "Document type %s (mutable: %t, keeps history: %t)\n", name, dt.DocumentsMutable, dt.DocumentsKeepHistory)
		for _, index := range dt.Indices {
			fmt.Fprintf(w, "  index %s [%s] unique: %t\n", index.Name, strings.Join(index.PropertyNames(), ", "), index.Unique)
		}
		if dt.IndexStructure != nil {
			for _, p := range dt.IndexStructure.Paths() {
				fmt.Fprintf(w, "  path %s\n", strings.Join(p, " > "))
			}
		}
		if dump {
			spewConfig.Fdump(w, dt.Properties)
		}
	}
	return nil
}
