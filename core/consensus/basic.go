/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package consensus

import (
	"fmt"
	"strings"

	"github.com/dashpay/platform-drive/core/identifier"
)

func init() {
	register(
		&ProtocolVersionParsingError{},
		&SerializedObjectParsingError{},
		&UnsupportedProtocolVersionError{},
		&IncompatibleProtocolVersionError{},
		&JSONSchemaCompilationError{},
		&JSONSchemaError{},
		&InvalidIdentifierError{},
		&ValueError{},
		&UnsupportedVersionError{},

		&DataContractMaxDepthExceedError{},
		&DuplicateIndexError{},
		&IncompatibleRe2PatternError{},
		&InvalidCompoundIndexError{},
		&InvalidDataContractIDError{},
		&InvalidIndexedPropertyConstraintError{},
		&InvalidIndexPropertyTypeError{},
		&InvalidJSONSchemaRefError{},
		&SystemPropertyIndexAlreadyPresentError{},
		&UndefinedIndexPropertyError{},
		&UniqueIndicesLimitReachedError{},
		&DuplicateIndexNameError{},
		&InvalidDataContractVersionError{},
		&IncompatibleDataContractSchemaError{},
		&DataContractImmutablePropertiesUpdateError{},

		&DataContractNotPresentError{},
		&DuplicateDocumentTransitionsWithIDsError{},
		&InvalidDocumentTransitionActionError{},
		&InvalidDocumentTransitionIDError{},
		&InvalidDocumentTypeError{},
		&MissingDocumentTransitionTypeError{},
		&MissingDataContractIDError{},
		&InconsistentCompoundIndexDataError{},
		&DocumentTransitionsLimitExceededError{},

		&InvalidIdentityPublicKeyDataError{},
		&InvalidIdentityPublicKeyTypeBasicError{},
		&DuplicatedIdentityPublicKeyIDError{},
		&DuplicatedIdentityPublicKeyError{},
		&MissingMasterPublicKeyError{},
		&InvalidIdentityPublicKeySecurityLevelError{},
		&InvalidIdentityAssetLockTransactionError{},
		&InvalidIdentityAssetLockTransactionOutputError{},
		&IdentityAssetLockTransactionOutputNotFoundError{},
		&InvalidAssetLockTransactionOutputReturnSizeError{},
		&InvalidAssetLockProofCoreChainHeightError{},
		&InvalidIdentityCreditWithdrawalTransitionCoreFeeError{},
		&InvalidIdentityCreditWithdrawalTransitionOutputScriptError{},
		&NotImplementedIdentityCreditWithdrawalPoolingError{},
		&InvalidIdentityCreditWithdrawalTransitionAmountError{},
		&IdentityCreditTransferToSelfError{},
		&InvalidIdentityUpdateTransitionEmptyError{},
		&InvalidIdentityUpdateTransitionDisableKeysError{},
		&InvalidIdentityKeySignatureError{},

		&InvalidStateTransitionTypeError{},
		&StateTransitionMaxSizeExceededError{},
		&MissingStateTransitionTypeError{},
	)
}

// debugList renders names the way the reference node prints string lists.
func debugList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func uintList(items []uint32) string {
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type ProtocolVersionParsingError struct {
	ParsingError string
}

func (e *ProtocolVersionParsingError) Code() uint32 { return CodeProtocolVersionParsing }
func (e *ProtocolVersionParsingError) Error() string {
	return "Can't read protocol version from serialized object: " + e.ParsingError
}

type SerializedObjectParsingError struct {
	ParsingError string
}

func (e *SerializedObjectParsingError) Code() uint32 { return CodeSerializedObjectParsing }
func (e *SerializedObjectParsingError) Error() string {
	return "Parsing of serialized object failed due to: " + e.ParsingError
}

// UnsupportedProtocolVersionError is reported for a protocol version newer
// than the latest one this node knows.
type UnsupportedProtocolVersionError struct {
	ParsedProtocolVersion uint32
	LatestVersion         uint32
}

func (e *UnsupportedProtocolVersionError) Code() uint32 { return CodeUnsupportedProtocolVersion }
func (e *UnsupportedProtocolVersionError) Error() string {
	return fmt.Sprintf("Protocol version %d is not supported. Latest supported version is %d",
		e.ParsedProtocolVersion, e.LatestVersion)
}

// IncompatibleProtocolVersionError is reported for a protocol version older
// than the minimal version compatible with the current one.
type IncompatibleProtocolVersionError struct {
	ParsedProtocolVersion  uint32
	MinimalProtocolVersion uint32
}

func (e *IncompatibleProtocolVersionError) Code() uint32 { return CodeIncompatibleProtocolVersion }
func (e *IncompatibleProtocolVersionError) Error() string {
	return fmt.Sprintf("Protocol version %d is not supported. Minimal supported protocol version is %d",
		e.ParsedProtocolVersion, e.MinimalProtocolVersion)
}

type JSONSchemaCompilationError struct {
	CompilationError string
}

func (e *JSONSchemaCompilationError) Code() uint32 { return CodeJSONSchemaCompilation }
func (e *JSONSchemaCompilationError) Error() string {
	return "JSON Schema compilation error: " + e.CompilationError
}

// JSONSchemaError is a single violation reported by the JSON Schema
// validator.
type JSONSchemaError struct {
	ErrorSummary string
	Keyword      string
	InstancePath string
	SchemaPath   string
}

func (e *JSONSchemaError) Code() uint32 { return CodeJSONSchema }
func (e *JSONSchemaError) Error() string {
	return fmt.Sprintf("JsonSchemaError: %s, keyword: %s, instance path: %s, schema path: %s",
		e.ErrorSummary, e.Keyword, e.InstancePath, e.SchemaPath)
}

type InvalidIdentifierError struct {
	IdentifierName string
	Message        string
}

func (e *InvalidIdentifierError) Code() uint32 { return CodeInvalidIdentifier }
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("Invalid %s: %s", e.IdentifierName, e.Message)
}

type ValueError struct {
	ValueError string
}

func (e *ValueError) Code() uint32 { return CodeValue }
func (e *ValueError) Error() string {
	return "Value error: " + e.ValueError
}

// UnsupportedVersionError is reported when a feature version falls outside
// the bounds of the active platform version.
type UnsupportedVersionError struct {
	ReceivedVersion uint16
	MinVersion      uint16
	MaxVersion      uint16
}

func (e *UnsupportedVersionError) Code() uint32 { return CodeUnsupportedVersion }
func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("Unsupported version %d is not in range %d..=%d",
		e.ReceivedVersion, e.MinVersion, e.MaxVersion)
}

type DataContractMaxDepthExceedError struct {
	MaxDepth uint32
}

func (e *DataContractMaxDepthExceedError) Code() uint32 { return CodeDataContractMaxDepthExceed }
func (e *DataContractMaxDepthExceedError) Error() string {
	return fmt.Sprintf("JSON Schema depth is greater than %d", e.MaxDepth)
}

type DuplicateIndexError struct {
	DocumentType string
	IndexName    string
}

func (e *DuplicateIndexError) Code() uint32 { return CodeDuplicateIndex }
func (e *DuplicateIndexError) Error() string {
	return fmt.Sprintf("Duplicate index definition for %q document", e.DocumentType)
}

type IncompatibleRe2PatternError struct {
	Pattern string
	Path    string
	Message string
}

func (e *IncompatibleRe2PatternError) Code() uint32 { return CodeIncompatibleRe2Pattern }
func (e *IncompatibleRe2PatternError) Error() string {
	return fmt.Sprintf("Pattern %s at %s is not not compatible with Re2: %s", e.Pattern, e.Path, e.Message)
}

type InvalidCompoundIndexError struct {
	DocumentType string
	IndexName    string
}

func (e *InvalidCompoundIndexError) Code() uint32 { return CodeInvalidCompoundIndex }
func (e *InvalidCompoundIndexError) Error() string {
	return fmt.Sprintf("All or none of unique compound properties must be required for %q index of %q document",
		e.IndexName, e.DocumentType)
}

type InvalidDataContractIDError struct {
	ExpectedID []byte
	InvalidID  []byte
}

func (e *InvalidDataContractIDError) Code() uint32 { return CodeInvalidDataContractID }
func (e *InvalidDataContractIDError) Error() string {
	return fmt.Sprintf("Data Contract ID must be %s, got %s", encodeID(e.ExpectedID), encodeID(e.InvalidID))
}

func encodeID(b []byte) string {
	if id, err := identifier.FromBytes(b); err == nil {
		return id.String()
	}
	return fmt.Sprintf("%x", b)
}

type InvalidIndexedPropertyConstraintError struct {
	DocumentType   string
	IndexName      string
	PropertyName   string
	ConstraintName string
	Reason         string
}

func (e *InvalidIndexedPropertyConstraintError) Code() uint32 {
	return CodeInvalidIndexedPropertyConstraint
}
func (e *InvalidIndexedPropertyConstraintError) Error() string {
	return fmt.Sprintf("Indexed property %q for %q document has an invalid constraint %q, reason: %q",
		e.PropertyName, e.DocumentType, e.ConstraintName, e.Reason)
}

type InvalidIndexPropertyTypeError struct {
	DocumentType string
	IndexName    string
	PropertyName string
	PropertyType string
}

func (e *InvalidIndexPropertyTypeError) Code() uint32 { return CodeInvalidIndexPropertyType }
func (e *InvalidIndexPropertyTypeError) Error() string {
	return fmt.Sprintf("%q property of %q document has an invalid type %q and cannot be use as an index",
		e.PropertyName, e.DocumentType, e.PropertyType)
}

type InvalidJSONSchemaRefError struct {
	RefError string
}

func (e *InvalidJSONSchemaRefError) Code() uint32 { return CodeInvalidJSONSchemaRef }
func (e *InvalidJSONSchemaRefError) Error() string {
	return "Invalid JSON Schema $ref: " + e.RefError
}

type SystemPropertyIndexAlreadyPresentError struct {
	DocumentType string
	IndexName    string
	PropertyName string
}

func (e *SystemPropertyIndexAlreadyPresentError) Code() uint32 {
	return CodeSystemPropertyIndexAlreadyPresent
}
func (e *SystemPropertyIndexAlreadyPresentError) Error() string {
	return fmt.Sprintf("System property %q is already indexed and can't be used in other indices for %q document",
		e.PropertyName, e.DocumentType)
}

type UndefinedIndexPropertyError struct {
	DocumentType string
	IndexName    string
	PropertyName string
}

func (e *UndefinedIndexPropertyError) Code() uint32 { return CodeUndefinedIndexProperty }
func (e *UndefinedIndexPropertyError) Error() string {
	return fmt.Sprintf("%q property is not defined in %q document", e.PropertyName, e.DocumentType)
}

type UniqueIndicesLimitReachedError struct {
	DocumentType string
	IndexLimit   uint32
}

func (e *UniqueIndicesLimitReachedError) Code() uint32 { return CodeUniqueIndicesLimitReached }
func (e *UniqueIndicesLimitReachedError) Error() string {
	return fmt.Sprintf("%q document has more than %d unique indexes", e.DocumentType, e.IndexLimit)
}

type DuplicateIndexNameError struct {
	DocumentType       string
	DuplicateIndexName string
}

func (e *DuplicateIndexNameError) Code() uint32 { return CodeDuplicateIndexName }
func (e *DuplicateIndexNameError) Error() string {
	return fmt.Sprintf("Duplicate index name %q defined in %q document", e.DuplicateIndexName, e.DocumentType)
}

type InvalidDataContractVersionError struct {
	ExpectedVersion uint32
	Version         uint32
}

func (e *InvalidDataContractVersionError) Code() uint32 { return CodeInvalidDataContractVersion }
func (e *InvalidDataContractVersionError) Error() string {
	return fmt.Sprintf("Data Contract version must be %d, got %d", e.ExpectedVersion, e.Version)
}

// IncompatibleDataContractSchemaError is reported when an update changes
// the schema in a way existing documents may not satisfy.
type IncompatibleDataContractSchemaError struct {
	DataContractID identifier.Identifier
	Operation      string
	FieldPath      string
}

func (e *IncompatibleDataContractSchemaError) Code() uint32 {
	return CodeIncompatibleDataContractSchema
}
func (e *IncompatibleDataContractSchemaError) Error() string {
	return fmt.Sprintf("Data Contract updated schema is not backward compatible with one defined in Data Contract with id %s. Field: '%s', Operation: '%s'",
		e.DataContractID, e.FieldPath, e.Operation)
}

type DataContractImmutablePropertiesUpdateError struct {
	Operation string
	FieldPath string
}

func (e *DataContractImmutablePropertiesUpdateError) Code() uint32 {
	return CodeDataContractImmutablePropertiesUpdate
}
func (e *DataContractImmutablePropertiesUpdateError) Error() string {
	return fmt.Sprintf("Only $defs, version and documents fields are allowed to be updated. Forbidden operation '%s' on '%s'",
		e.Operation, e.FieldPath)
}

type DataContractNotPresentError struct {
	DataContractID identifier.Identifier
}

func (e *DataContractNotPresentError) Code() uint32 { return CodeDataContractNotPresent }
func (e *DataContractNotPresentError) Error() string {
	return fmt.Sprintf("Data Contract %s is not present", e.DataContractID)
}

// DocumentTypeAndID names a document transition by its type and id.
type DocumentTypeAndID struct {
	DocumentType string
	DocumentID   identifier.Identifier
}

type DuplicateDocumentTransitionsWithIDsError struct {
	References []DocumentTypeAndID
}

func (e *DuplicateDocumentTransitionsWithIDsError) Code() uint32 {
	return CodeDuplicateDocumentTransitionsWithIDs
}
func (e *DuplicateDocumentTransitionsWithIDsError) Error() string {
	refs := make([]string, len(e.References))
	for i, r := range e.References {
		refs[i] = fmt.Sprintf("(%s, %s)", r.DocumentType, r.DocumentID)
	}
	return "Document transitions with duplicate IDs [" + strings.Join(refs, ", ") + "]"
}

type InvalidDocumentTransitionActionError struct {
	Action string
}

func (e *InvalidDocumentTransitionActionError) Code() uint32 {
	return CodeInvalidDocumentTransitionAction
}
func (e *InvalidDocumentTransitionActionError) Error() string {
	return fmt.Sprintf("Document transition action %s is not supported", e.Action)
}

type InvalidDocumentTransitionIDError struct {
	ExpectedID identifier.Identifier
	InvalidID  identifier.Identifier
}

func (e *InvalidDocumentTransitionIDError) Code() uint32 { return CodeInvalidDocumentTransitionID }
func (e *InvalidDocumentTransitionIDError) Error() string {
	return fmt.Sprintf("Invalid document transition id %s, expected %s", e.InvalidID, e.ExpectedID)
}

type InvalidDocumentTypeError struct {
	DocumentType   string
	DataContractID identifier.Identifier
}

func (e *InvalidDocumentTypeError) Code() uint32 { return CodeInvalidDocumentType }
func (e *InvalidDocumentTypeError) Error() string {
	return fmt.Sprintf("Data Contract %s doesn't define document with the type %s", e.DataContractID, e.DocumentType)
}

type MissingDocumentTransitionTypeError struct{}

func (e *MissingDocumentTransitionTypeError) Code() uint32 { return CodeMissingDocumentTransitionType }
func (e *MissingDocumentTransitionTypeError) Error() string {
	return "$type is not present"
}

type MissingDataContractIDError struct{}

func (e *MissingDataContractIDError) Code() uint32 { return CodeMissingDataContractID }
func (e *MissingDataContractIDError) Error() string {
	return "$dataContractId is not present"
}

type InconsistentCompoundIndexDataError struct {
	DocumentType    string
	IndexProperties []string
}

func (e *InconsistentCompoundIndexDataError) Code() uint32 {
	return CodeInconsistentCompoundIndexData
}
func (e *InconsistentCompoundIndexDataError) Error() string {
	return fmt.Sprintf("Unique compound index properties %s are partially set for %s",
		debugList(e.IndexProperties), e.DocumentType)
}

type DocumentTransitionsLimitExceededError struct {
	Count uint32
	Limit uint32
}

func (e *DocumentTransitionsLimitExceededError) Code() uint32 {
	return CodeDocumentTransitionsLimitExceeded
}
func (e *DocumentTransitionsLimitExceededError) Error() string {
	return fmt.Sprintf("Documents batch must contain from 1 to %d transitions, got %d", e.Limit, e.Count)
}

type InvalidIdentityPublicKeyDataError struct {
	PublicKeyID     uint32
	ValidationError string
}

func (e *InvalidIdentityPublicKeyDataError) Code() uint32 { return CodeInvalidIdentityPublicKeyData }
func (e *InvalidIdentityPublicKeyDataError) Error() string {
	return fmt.Sprintf("Invalid identity public key %d data: %s", e.PublicKeyID, e.ValidationError)
}

// InvalidIdentityPublicKeyTypeBasicError is reported by structure checks for
// a key type this node does not know.
type InvalidIdentityPublicKeyTypeBasicError struct {
	PublicKeyType uint8
}

func (e *InvalidIdentityPublicKeyTypeBasicError) Code() uint32 {
	return CodeInvalidIdentityPublicKeyTypeBasic
}
func (e *InvalidIdentityPublicKeyTypeBasicError) Error() string {
	return fmt.Sprintf("Invalid identity public key type %d", e.PublicKeyType)
}

type DuplicatedIdentityPublicKeyIDError struct {
	DuplicatedIDs []uint32
}

func (e *DuplicatedIdentityPublicKeyIDError) Code() uint32 { return CodeDuplicatedIdentityPublicKeyID }
func (e *DuplicatedIdentityPublicKeyIDError) Error() string {
	return fmt.Sprintf("Duplicated public key ids %s found", uintList(e.DuplicatedIDs))
}

type DuplicatedIdentityPublicKeyError struct {
	DuplicatedPublicKeyIDs []uint32
}

func (e *DuplicatedIdentityPublicKeyError) Code() uint32 { return CodeDuplicatedIdentityPublicKey }
func (e *DuplicatedIdentityPublicKeyError) Error() string {
	return fmt.Sprintf("Duplicated public keys %s found", uintList(e.DuplicatedPublicKeyIDs))
}

type MissingMasterPublicKeyError struct{}

func (e *MissingMasterPublicKeyError) Code() uint32 { return CodeMissingMasterPublicKey }
func (e *MissingMasterPublicKeyError) Error() string {
	return "Identity doesn't contain any master key, thus can not be updated. Please add a master key"
}

type InvalidIdentityPublicKeySecurityLevelError struct {
	PublicKeyID   uint32
	Purpose       uint8
	SecurityLevel uint8
}

func (e *InvalidIdentityPublicKeySecurityLevelError) Code() uint32 {
	return CodeInvalidIdentityPublicKeySecurityLevel
}
func (e *InvalidIdentityPublicKeySecurityLevelError) Error() string {
	return fmt.Sprintf("Invalid identity public key %d security level %d for purpose %d",
		e.PublicKeyID, e.SecurityLevel, e.Purpose)
}

type InvalidIdentityAssetLockTransactionError struct {
	Message string
}

func (e *InvalidIdentityAssetLockTransactionError) Code() uint32 {
	return CodeInvalidIdentityAssetLockTransaction
}
func (e *InvalidIdentityAssetLockTransactionError) Error() string {
	return "Invalid asset lock transaction: " + e.Message
}

type InvalidIdentityAssetLockTransactionOutputError struct {
	OutputIndex uint32
}

func (e *InvalidIdentityAssetLockTransactionOutputError) Code() uint32 {
	return CodeInvalidIdentityAssetLockTransactionOutput
}
func (e *InvalidIdentityAssetLockTransactionOutputError) Error() string {
	return fmt.Sprintf("Asset lock output %d is not a valid standard OP_RETURN output", e.OutputIndex)
}

type IdentityAssetLockTransactionOutputNotFoundError struct {
	OutputIndex uint32
}

func (e *IdentityAssetLockTransactionOutputNotFoundError) Code() uint32 {
	return CodeIdentityAssetLockTransactionOutputNotFound
}
func (e *IdentityAssetLockTransactionOutputNotFoundError) Error() string {
	return fmt.Sprintf("Asset Lock transaction output with index %d not found", e.OutputIndex)
}

type InvalidAssetLockTransactionOutputReturnSizeError struct {
	OutputIndex uint32
}

func (e *InvalidAssetLockTransactionOutputReturnSizeError) Code() uint32 {
	return CodeInvalidAssetLockTransactionOutputReturnSize
}
func (e *InvalidAssetLockTransactionOutputReturnSizeError) Error() string {
	return fmt.Sprintf("Asset Lock output %d has invalid public key hash. Must be 20 length bytes hash", e.OutputIndex)
}

type InvalidAssetLockProofCoreChainHeightError struct {
	ProofCoreChainLockedHeight   uint32
	CurrentCoreChainLockedHeight uint32
}

func (e *InvalidAssetLockProofCoreChainHeightError) Code() uint32 {
	return CodeInvalidAssetLockProofCoreChainHeight
}
func (e *InvalidAssetLockProofCoreChainHeightError) Error() string {
	return fmt.Sprintf("Asset Lock proof core chain height %d is higher than the current consensus core height %d",
		e.ProofCoreChainLockedHeight, e.CurrentCoreChainLockedHeight)
}

type InvalidIdentityCreditWithdrawalTransitionCoreFeeError struct {
	CoreFee uint32
}

func (e *InvalidIdentityCreditWithdrawalTransitionCoreFeeError) Code() uint32 {
	return CodeInvalidIdentityCreditWithdrawalTransitionCoreFee
}
func (e *InvalidIdentityCreditWithdrawalTransitionCoreFeeError) Error() string {
	return fmt.Sprintf("Core fee per byte %d must be part of fibonacci sequence", e.CoreFee)
}

type InvalidIdentityCreditWithdrawalTransitionOutputScriptError struct {
	OutputScript []byte
}

func (e *InvalidIdentityCreditWithdrawalTransitionOutputScriptError) Code() uint32 {
	return CodeInvalidIdentityCreditWithdrawalTransitionOutputScript
}
func (e *InvalidIdentityCreditWithdrawalTransitionOutputScriptError) Error() string {
	return "Output script must be either p2pkh or p2sh"
}

type NotImplementedIdentityCreditWithdrawalPoolingError struct {
	Pooling uint8
}

func (e *NotImplementedIdentityCreditWithdrawalPoolingError) Code() uint32 {
	return CodeNotImplementedIdentityCreditWithdrawalPooling
}
func (e *NotImplementedIdentityCreditWithdrawalPoolingError) Error() string {
	return fmt.Sprintf("pooling %d should be equal to 0. Other pooling mechanism are not implemented yet", e.Pooling)
}

type InvalidIdentityCreditWithdrawalTransitionAmountError struct {
	Amount    uint64
	MinAmount uint64
}

func (e *InvalidIdentityCreditWithdrawalTransitionAmountError) Code() uint32 {
	return CodeInvalidIdentityCreditWithdrawalTransitionAmount
}
func (e *InvalidIdentityCreditWithdrawalTransitionAmountError) Error() string {
	return fmt.Sprintf("Credit withdrawal amount %d must be greater or equal to %d", e.Amount, e.MinAmount)
}

type IdentityCreditTransferToSelfError struct{}

func (e *IdentityCreditTransferToSelfError) Code() uint32 { return CodeIdentityCreditTransferToSelf }
func (e *IdentityCreditTransferToSelfError) Error() string {
	return "Identity cannot transfer credits to itself"
}

type InvalidIdentityUpdateTransitionEmptyError struct{}

func (e *InvalidIdentityUpdateTransitionEmptyError) Code() uint32 {
	return CodeInvalidIdentityUpdateTransitionEmpty
}
func (e *InvalidIdentityUpdateTransitionEmptyError) Error() string {
	return "State transition must contain addPublicKeys or disablePublicKeys"
}

type InvalidIdentityUpdateTransitionDisableKeysError struct{}

func (e *InvalidIdentityUpdateTransitionDisableKeysError) Code() uint32 {
	return CodeInvalidIdentityUpdateTransitionDisableKeys
}
func (e *InvalidIdentityUpdateTransitionDisableKeysError) Error() string {
	return "publicKeysDisabledAt must be defined when disablePublicKeys is set"
}

type InvalidIdentityKeySignatureError struct {
	PublicKeyID uint32
}

func (e *InvalidIdentityKeySignatureError) Code() uint32 { return CodeInvalidIdentityKeySignature }
func (e *InvalidIdentityKeySignatureError) Error() string {
	return fmt.Sprintf("Identity key %d has invalid signature", e.PublicKeyID)
}

type InvalidStateTransitionTypeError struct {
	TransitionType uint8
}

func (e *InvalidStateTransitionTypeError) Code() uint32 { return CodeInvalidStateTransitionType }
func (e *InvalidStateTransitionTypeError) Error() string {
	return fmt.Sprintf("Invalid State Transition type %d", e.TransitionType)
}

type StateTransitionMaxSizeExceededError struct {
	ActualSizeKBytes uint64
	MaxSizeKBytes    uint64
}

func (e *StateTransitionMaxSizeExceededError) Code() uint32 {
	return CodeStateTransitionMaxSizeExceeded
}
func (e *StateTransitionMaxSizeExceededError) Error() string {
	return fmt.Sprintf("State transition is too big: %d KB, limit is %d KB", e.ActualSizeKBytes, e.MaxSizeKBytes)
}

type MissingStateTransitionTypeError struct{}

func (e *MissingStateTransitionTypeError) Code() uint32 { return CodeMissingStateTransitionType }
func (e *MissingStateTransitionTypeError) Error() string {
	return "State Transition type is not present"
}
