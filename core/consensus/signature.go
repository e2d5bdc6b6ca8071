/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package consensus

import (
	"fmt"

	"github.com/dashpay/platform-drive/core/identifier"
)

func init() {
	register(
		&IdentityNotFoundError{},
		&InvalidIdentityPublicKeyTypeError{},
		&InvalidStateTransitionSignatureError{},
		&MissingPublicKeyError{},
		&InvalidSignaturePublicKeySecurityLevelError{},
		&WrongPublicKeyPurposeError{},
		&PublicKeyIsDisabledError{},
		&PublicKeySecurityLevelNotMetError{},
		&SignatureShouldNotBePresentError{},
		&BasicECDSAError{},
	)
}

type IdentityNotFoundError struct {
	IdentityID identifier.Identifier
}

func (e *IdentityNotFoundError) Code() uint32 { return CodeIdentityNotFound }
func (e *IdentityNotFoundError) Error() string {
	return fmt.Sprintf("Identity %s not found", e.IdentityID)
}

// InvalidIdentityPublicKeyTypeError is reported when the signing key has a
// type that cannot sign state transitions.
type InvalidIdentityPublicKeyTypeError struct {
	PublicKeyType uint8
}

func (e *InvalidIdentityPublicKeyTypeError) Code() uint32 { return CodeInvalidIdentityPublicKeyType }
func (e *InvalidIdentityPublicKeyTypeError) Error() string {
	return fmt.Sprintf("Invalid identity public key type %d", e.PublicKeyType)
}

type InvalidStateTransitionSignatureError struct{}

func (e *InvalidStateTransitionSignatureError) Code() uint32 {
	return CodeInvalidStateTransitionSignature
}
func (e *InvalidStateTransitionSignatureError) Error() string {
	return "Invalid State Transition signature"
}

type MissingPublicKeyError struct {
	PublicKeyID uint32
}

func (e *MissingPublicKeyError) Code() uint32 { return CodeMissingPublicKey }
func (e *MissingPublicKeyError) Error() string {
	return fmt.Sprintf("Public key %d doesn't exist", e.PublicKeyID)
}

type InvalidSignaturePublicKeySecurityLevelError struct {
	PublicKeySecurityLevel uint8
	RequiredSecurityLevels []uint8
}

func (e *InvalidSignaturePublicKeySecurityLevelError) Code() uint32 {
	return CodeInvalidSignaturePublicKeySecurityLevel
}
func (e *InvalidSignaturePublicKeySecurityLevelError) Error() string {
	levels := make([]uint32, len(e.RequiredSecurityLevels))
	for i, l := range e.RequiredSecurityLevels {
		levels[i] = uint32(l)
	}
	return fmt.Sprintf("Invalid public key security level %d. The state transition requires one of %s",
		e.PublicKeySecurityLevel, uintList(levels))
}

type WrongPublicKeyPurposeError struct {
	PublicKeyPurpose      uint8
	KeyPurposeRequirement uint8
}

func (e *WrongPublicKeyPurposeError) Code() uint32 { return CodeWrongPublicKeyPurpose }
func (e *WrongPublicKeyPurposeError) Error() string {
	return fmt.Sprintf("Invalid identity key purpose %d. This state transition requires %d",
		e.PublicKeyPurpose, e.KeyPurposeRequirement)
}

type PublicKeyIsDisabledError struct {
	PublicKeyID uint32
}

func (e *PublicKeyIsDisabledError) Code() uint32 { return CodePublicKeyIsDisabled }
func (e *PublicKeyIsDisabledError) Error() string {
	return fmt.Sprintf("Public key %d is disabled", e.PublicKeyID)
}

// PublicKeySecurityLevelNotMetError is reported when the signing key is less
// secure than the transition requires. Lower numbers are more secure.
type PublicKeySecurityLevelNotMetError struct {
	PublicKeySecurityLevel uint8
	RequiredSecurityLevel  uint8
}

func (e *PublicKeySecurityLevelNotMetError) Code() uint32 { return CodePublicKeySecurityLevelNotMet }
func (e *PublicKeySecurityLevelNotMetError) Error() string {
	return fmt.Sprintf("Invalid security level %d. This state transition requires at least %d",
		e.PublicKeySecurityLevel, e.RequiredSecurityLevel)
}

type SignatureShouldNotBePresentError struct {
	Message string
}

func (e *SignatureShouldNotBePresentError) Code() uint32 { return CodeSignatureShouldNotBePresent }
func (e *SignatureShouldNotBePresentError) Error() string {
	return e.Message
}

type BasicECDSAError struct {
	Message string
}

func (e *BasicECDSAError) Code() uint32 { return CodeBasicECDSA }
func (e *BasicECDSAError) Error() string {
	return "ECDSA error: " + e.Message
}
