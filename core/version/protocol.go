/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package version

import "github.com/dashpay/platform-drive/core/consensus"

// ProtocolVersionValidator checks the protocol version declared by a raw
// object against the versions this node supports.
type ProtocolVersionValidator struct {
	Current uint32
	Latest  uint32
	// Compatibility maps a protocol version to the oldest version it still
	// accepts. A version missing from the map only accepts itself and newer.
	Compatibility map[uint32]uint32
}

// NewProtocolVersionValidator returns a validator for the latest protocol
// version.
func NewProtocolVersionValidator() *ProtocolVersionValidator {
	return &ProtocolVersionValidator{
		Current:       LatestProtocolVersion,
		Latest:        LatestProtocolVersion,
		Compatibility: map[uint32]uint32{1: 1},
	}
}

// MinimalCompatible returns the oldest protocol version accepted while
// running Current.
func (p *ProtocolVersionValidator) MinimalCompatible() uint32 {
	if v, ok := p.Compatibility[p.Current]; ok {
		return v
	}
	return p.Current
}

func (p *ProtocolVersionValidator) Validate(protocolVersion uint32) *consensus.SimpleValidationResult {
	result := consensus.NewSimpleValidationResult()
	if protocolVersion > p.Latest {
		result.AddError(&consensus.UnsupportedProtocolVersionError{
			ParsedProtocolVersion: protocolVersion,
			LatestVersion:         p.Latest,
		})
		return result
	}

	if minimal := p.MinimalCompatible(); protocolVersion < minimal {
		result.AddError(&consensus.IncompatibleProtocolVersionError{
			ParsedProtocolVersion:  protocolVersion,
			MinimalProtocolVersion: minimal,
		})
	}
	return result
}
