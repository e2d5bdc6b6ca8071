/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package consensus holds the consensus error taxonomy and the validation
// results that carry it. A consensus error is a verdict on a state transition
// that every node reaches identically; it is collected into a result and
// never returned as a Go error. Each error carries a stable numeric code and
// a stable binary encoding.
package consensus

import (
	"fmt"
	"reflect"
	"sort"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/serialization"
)

// Error is a consensus error.
type Error interface {
	error
	Code() uint32
}

// Class groups error codes by the stage that produces them.
type Class int

const (
	ClassUnknown Class = iota
	ClassBasic
	ClassSignature
	ClassFee
	ClassState
)

func (c Class) String() string {
	switch c {
	case ClassBasic:
		return "basic"
	case ClassSignature:
		return "signature"
	case ClassFee:
		return "fee"
	case ClassState:
		return "state"
	default:
		return "unknown"
	}
}

// ClassOf returns the class of a code.
func ClassOf(code uint32) Class {
	switch {
	case code >= 1000 && code < 2000:
		return ClassBasic
	case code >= 2000 && code < 3000:
		return ClassSignature
	case code >= 3000 && code < 4000:
		return ClassFee
	case code >= 4000 && code < 5000:
		return ClassState
	default:
		return ClassUnknown
	}
}

// Basic errors: protocol and encoding
const (
	CodeProtocolVersionParsing      uint32 = 1000
	CodeSerializedObjectParsing     uint32 = 1001
	CodeUnsupportedProtocolVersion  uint32 = 1002
	CodeIncompatibleProtocolVersion uint32 = 1003
	CodeJSONSchemaCompilation       uint32 = 1004
	CodeJSONSchema                  uint32 = 1005
	CodeInvalidIdentifier           uint32 = 1006
	CodeValue                       uint32 = 1007
	CodeUnsupportedVersion          uint32 = 1008
)

// Basic errors: data contract
const (
	CodeDataContractMaxDepthExceed            uint32 = 1010
	CodeDuplicateIndex                        uint32 = 1011
	CodeIncompatibleRe2Pattern                uint32 = 1012
	CodeInvalidCompoundIndex                  uint32 = 1013
	CodeInvalidDataContractID                 uint32 = 1014
	CodeInvalidIndexedPropertyConstraint      uint32 = 1015
	CodeInvalidIndexPropertyType              uint32 = 1016
	CodeInvalidJSONSchemaRef                  uint32 = 1017
	CodeSystemPropertyIndexAlreadyPresent     uint32 = 1018
	CodeUndefinedIndexProperty                uint32 = 1019
	CodeUniqueIndicesLimitReached             uint32 = 1020
	CodeDuplicateIndexName                    uint32 = 1021
	CodeInvalidDataContractVersion            uint32 = 1022
	CodeIncompatibleDataContractSchema        uint32 = 1023
	CodeDataContractImmutablePropertiesUpdate uint32 = 1024
)

// Basic errors: documents
const (
	CodeDataContractNotPresent              uint32 = 1025
	CodeDuplicateDocumentTransitionsWithIDs uint32 = 1026
	CodeInvalidDocumentTransitionAction     uint32 = 1027
	CodeInvalidDocumentTransitionID         uint32 = 1028
	CodeInvalidDocumentType                 uint32 = 1029
	CodeMissingDocumentTransitionType       uint32 = 1030
	CodeMissingDataContractID               uint32 = 1031
	CodeInconsistentCompoundIndexData       uint32 = 1032
	CodeDocumentTransitionsLimitExceeded    uint32 = 1033
)

// Basic errors: identity
const (
	CodeInvalidIdentityPublicKeyData                          uint32 = 1040
	CodeInvalidIdentityPublicKeyTypeBasic                     uint32 = 1041
	CodeDuplicatedIdentityPublicKeyID                         uint32 = 1042
	CodeDuplicatedIdentityPublicKey                           uint32 = 1043
	CodeMissingMasterPublicKey                                uint32 = 1044
	CodeInvalidIdentityPublicKeySecurityLevel                 uint32 = 1045
	CodeInvalidIdentityAssetLockTransaction                   uint32 = 1046
	CodeInvalidIdentityAssetLockTransactionOutput             uint32 = 1047
	CodeIdentityAssetLockTransactionOutputNotFound            uint32 = 1048
	CodeInvalidAssetLockTransactionOutputReturnSize           uint32 = 1049
	CodeInvalidAssetLockProofCoreChainHeight                  uint32 = 1050
	CodeInvalidIdentityCreditWithdrawalTransitionCoreFee      uint32 = 1051
	CodeInvalidIdentityCreditWithdrawalTransitionOutputScript uint32 = 1052
	CodeNotImplementedIdentityCreditWithdrawalPooling         uint32 = 1053
	CodeInvalidIdentityCreditWithdrawalTransitionAmount       uint32 = 1054
	CodeIdentityCreditTransferToSelf                          uint32 = 1055
	CodeInvalidIdentityUpdateTransitionEmpty                  uint32 = 1056
	CodeInvalidIdentityUpdateTransitionDisableKeys            uint32 = 1057
	CodeInvalidIdentityKeySignature                           uint32 = 1058
)

// Basic errors: state transition envelope
const (
	CodeInvalidStateTransitionType     uint32 = 1070
	CodeStateTransitionMaxSizeExceeded uint32 = 1071
	CodeMissingStateTransitionType     uint32 = 1072
)

// Signature errors
const (
	CodeIdentityNotFound                       uint32 = 2000
	CodeInvalidIdentityPublicKeyType           uint32 = 2001
	CodeInvalidStateTransitionSignature        uint32 = 2002
	CodeMissingPublicKey                       uint32 = 2003
	CodeInvalidSignaturePublicKeySecurityLevel uint32 = 2004
	CodeWrongPublicKeyPurpose                  uint32 = 2005
	CodePublicKeyIsDisabled                    uint32 = 2006
	CodePublicKeySecurityLevelNotMet           uint32 = 2007
	CodeSignatureShouldNotBePresent            uint32 = 2008
	CodeBasicECDSA                             uint32 = 2009
)

// Fee errors
const (
	CodeBalanceIsNotEnough uint32 = 3000
)

// State errors
const (
	CodeDataContractAlreadyPresent uint32 = 4000
	CodeDataContractIsReadonly     uint32 = 4001
	CodeDataContractConfigUpdate   uint32 = 4002

	CodeDocumentAlreadyPresent           uint32 = 4004
	CodeDocumentNotFound                 uint32 = 4005
	CodeDocumentOwnerIDMismatch          uint32 = 4006
	CodeDocumentTimestampsMismatch       uint32 = 4007
	CodeDocumentTimestampWindowViolation uint32 = 4008
	CodeDocumentTimestampsAreEqual       uint32 = 4009
	CodeDuplicateUniqueIndex             uint32 = 4010
	CodeInvalidDocumentRevision          uint32 = 4011
	CodeDocumentNotMutable               uint32 = 4012

	CodeIdentityAlreadyExists                             uint32 = 4020
	CodeIdentityPublicKeyIsReadOnly                       uint32 = 4021
	CodeInvalidIdentityPublicKeyID                        uint32 = 4022
	CodeInvalidIdentityRevision                           uint32 = 4023
	CodeMaxIdentityPublicKeyLimitReached                  uint32 = 4024
	CodeDuplicatedIdentityPublicKeyState                  uint32 = 4025
	CodeDuplicatedIdentityPublicKeyIDState                uint32 = 4026
	CodeIdentityPublicKeyIsDisabled                       uint32 = 4027
	CodeIdentityPublicKeyDisabledAtWindowViolation        uint32 = 4028
	CodeIdentityInsufficientBalance                       uint32 = 4029
	CodeIdentityAssetLockTransactionOutPointAlreadyExists uint32 = 4030

	CodeDataTriggerCondition     uint32 = 4040
	CodeDataTriggerExecution     uint32 = 4041
	CodeDataTriggerInvalidResult uint32 = 4042
)

var registry = map[uint32]reflect.Type{}

// register binds a code to the struct type that carries it. Every
// consensus error type registers itself from an init function.
func register(errs ...Error) {
	for _, e := range errs {
		code := e.Code()
		if _, exists := registry[code]; exists {
			panic(fmt.Sprintf("consensus error code %d registered twice", code))
		}
		t := reflect.TypeOf(e)
		if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
			panic(fmt.Sprintf("consensus error %T must be a pointer to a struct", e))
		}
		registry[code] = t.Elem()
	}
}

// Codes returns every registered code in ascending order.
func Codes() []uint32 {
	codes := make([]uint32, 0, len(registry))
	for c := range registry {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// New returns a zero valued error registered under code.
func New(code uint32) (Error, bool) {
	t, ok := registry[code]
	if !ok {
		return nil, false
	}
	return reflect.New(t).Interface().(Error), true
}

// Serialize writes the code followed by the fields of err in declaration
// order.
func Serialize(err Error) ([]byte, error) {
	if err == nil {
		return nil, &commonerrors.PlatformSerializationError{Reason: "cannot serialize nil consensus error"}
	}
	rv := reflect.ValueOf(err)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil, &commonerrors.PlatformSerializationError{Reason: fmt.Sprintf("unsupported consensus error %T", err)}
	}
	if _, ok := registry[err.Code()]; !ok {
		return nil, &commonerrors.PlatformSerializationError{Reason: fmt.Sprintf("unregistered consensus error code %d", err.Code())}
	}

	e := serialization.NewEncoder(serialization.Config{})
	e.WriteU32(err.Code())
	e.Encode(rv.Elem().Interface())
	if e.Err() != nil {
		return nil, e.Err()
	}
	return e.Bytes(), nil
}

// Deserialize reads an error written by Serialize.
func Deserialize(b []byte) (Error, error) {
	d := serialization.NewDecoder(b, serialization.Config{})
	code := d.ReadU32()
	if d.Err() != nil {
		return nil, d.Err()
	}
	target, ok := New(code)
	if !ok {
		return nil, &commonerrors.PlatformDeserializationError{Reason: fmt.Sprintf("unknown consensus error code %d", code)}
	}
	d.Decode(target)
	if d.Err() != nil {
		return nil, d.Err()
	}
	if d.Remaining() != 0 {
		return nil, &commonerrors.PlatformDeserializationError{
			Reason: fmt.Sprintf("%d trailing bytes after consensus error %d", d.Remaining(), code),
		}
	}
	return target, nil
}
