/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package drivecli

import (
	"fmt"
	"io"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// errInvalid is returned after an invalid result was printed so that the
// process exits with a non-zero status.
var errInvalid = errors.New("validation failed")

type consensusError struct {
	Code    uint32 `yaml:"code"`
	Class   string `yaml:"class"`
	Message string `yaml:"message"`
}

type validationOutput struct {
	Valid      bool             `yaml:"valid"`
	Action     string           `yaml:"action,omitempty"`
	DryRun     bool             `yaml:"dryRun,omitempty"`
	Operations *operationsCount `yaml:"operations,omitempty"`
	Errors     []consensusError `yaml:"errors,omitempty"`
}

type operationsCount struct {
	Reads  int `yaml:"reads"`
	Writes int `yaml:"writes"`
}

func newValidationOutput(result consensus.ErrorLister) *validationOutput {
	out := &validationOutput{Valid: true}
	for _, e := range result.ErrorList() {
		out.Valid = false
		out.Errors = append(out.Errors, consensusError{
			Code:    e.Code(),
			Class:   consensus.ClassOf(e.Code()).String(),
			Message: e.Error(),
		})
	}
	return out
}

func printYAML(w io.Writer, v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed marshaling output")
	}
	_, err = fmt.Fprint(w, string(b))
	return err
}
