/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package version holds the platform version table. Every versioned code
// path reads its feature version from a PlatformVersion and dispatches on it,
// so rule changes can ship without altering how historical blocks validate.
package version

import (
	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/consensus"
)

// FeatureVersion selects one implementation of a versioned feature.
type FeatureVersion = uint16

// FeatureVersionBounds is the accepted range of a serialized feature version
// and the version new objects are created with.
type FeatureVersionBounds struct {
	MinVersion            FeatureVersion
	MaxVersion            FeatureVersion
	DefaultCurrentVersion FeatureVersion
}

// CheckVersion reports whether v is within the bounds.
func (b FeatureVersionBounds) CheckVersion(v FeatureVersion) bool {
	return v >= b.MinVersion && v <= b.MaxVersion
}

// Validate returns a result carrying an UnsupportedVersionError when v is out
// of bounds.
func (b FeatureVersionBounds) Validate(v FeatureVersion) *consensus.SimpleValidationResult {
	if b.CheckVersion(v) {
		return consensus.NewSimpleValidationResult()
	}
	return consensus.NewSimpleValidationResult(&consensus.UnsupportedVersionError{
		ReceivedVersion: v,
		MinVersion:      b.MinVersion,
		MaxVersion:      b.MaxVersion,
	})
}

type PlatformVersion struct {
	ProtocolVersion uint32
	DPP             DPPVersion
	Drive           DriveVersion
	DriveABCI       DriveABCIVersion
}

type DPPVersion struct {
	Contract                             ContractVersions
	Document                             DocumentVersions
	Identity                             FeatureVersionBounds
	StateTransitionSerializationVersions StateTransitionSerializationVersions
	StateTransition                      StateTransitionVersions
}

type ContractVersions struct {
	ContractStructure            FeatureVersion
	ContractSerializationVersion FeatureVersionBounds
	Config                       FeatureVersion
	Validation                   FeatureVersion
	DocumentType                 DocumentTypeVersions
}

type DocumentTypeVersions struct {
	Structure   FeatureVersion
	Index       FeatureVersion
	IndexLevel  FeatureVersion
	Schema      FeatureVersion
	RandomIndex FeatureVersion
}

type DocumentVersions struct {
	DocumentStructure     FeatureVersion
	DocumentSerialization FeatureVersionBounds
}

type StateTransitionSerializationVersions struct {
	IdentityCreate           FeatureVersionBounds
	IdentityUpdate           FeatureVersionBounds
	IdentityTopUp            FeatureVersionBounds
	IdentityCreditWithdrawal FeatureVersionBounds
	IdentityCreditTransfer   FeatureVersionBounds
	ContractCreate           FeatureVersionBounds
	ContractUpdate           FeatureVersionBounds
	DocumentsBatch           FeatureVersionBounds
	DocumentTransition       FeatureVersionBounds
}

type StateTransitionVersions struct {
	Factory       FeatureVersion
	SignableBytes FeatureVersion
	AssetLock     FeatureVersion
}

type DriveVersion struct {
	Methods DriveMethodVersions
}

type DriveMethodVersions struct {
	Document DocumentMethodVersions
	Contract ContractMethodVersions
	Identity IdentityMethodVersions
}

type DocumentMethodVersions struct {
	ValidateDocumentUniqueness FeatureVersion
	QueryDocuments             FeatureVersion
}

type ContractMethodVersions struct {
	FetchContract FeatureVersion
}

type IdentityMethodVersions struct {
	FetchIdentity FeatureVersion
}

type DriveABCIVersion struct {
	ValidationAndProcessing ValidationAndProcessingVersions
}

type ValidationAndProcessingVersions struct {
	ProcessStateTransition FeatureVersion
	StateTransitions       StateTransitionValidationVersions
	DataTriggers           DataTriggerVersions
	BlockValidation        FeatureVersion
}

// StateTransitionStages holds the version of every validation stage of one
// state transition type.
type StateTransitionStages struct {
	Structure           FeatureVersion
	IdentitySignatures  FeatureVersion
	State               FeatureVersion
	TransformIntoAction FeatureVersion
}

type StateTransitionValidationVersions struct {
	IdentityCreate           StateTransitionStages
	IdentityUpdate           StateTransitionStages
	IdentityTopUp            StateTransitionStages
	IdentityCreditWithdrawal StateTransitionStages
	IdentityCreditTransfer   StateTransitionStages
	ContractCreate           StateTransitionStages
	ContractUpdate           StateTransitionStages
	DocumentsBatch           StateTransitionStages
}

type DataTriggerVersions struct {
	Bindings              FeatureVersion
	RewardShare           FeatureVersion
	DashPayContactRequest FeatureVersion
	FeatureFlags          FeatureVersion
	Reject                FeatureVersion
}

var allZeroStages = StateTransitionStages{}

var bounds0 = FeatureVersionBounds{MinVersion: 0, MaxVersion: 0, DefaultCurrentVersion: 0}

// platformV1 is the first platform version. Entries are never edited once
// released; a rule change adds a new PlatformVersion.
var platformV1 = PlatformVersion{
	ProtocolVersion: 1,
	DPP: DPPVersion{
		Contract: ContractVersions{
			ContractStructure:            0,
			ContractSerializationVersion: bounds0,
			Config:                       0,
			Validation:                   0,
			DocumentType: DocumentTypeVersions{
				Structure:   0,
				Index:       0,
				IndexLevel:  0,
				Schema:      0,
				RandomIndex: 0,
			},
		},
		Document: DocumentVersions{
			DocumentStructure:     0,
			DocumentSerialization: bounds0,
		},
		Identity: bounds0,
		StateTransitionSerializationVersions: StateTransitionSerializationVersions{
			IdentityCreate:           bounds0,
			IdentityUpdate:           bounds0,
			IdentityTopUp:            bounds0,
			IdentityCreditWithdrawal: bounds0,
			IdentityCreditTransfer:   bounds0,
			ContractCreate:           bounds0,
			ContractUpdate:           bounds0,
			DocumentsBatch:           bounds0,
			DocumentTransition:       bounds0,
		},
	},
	Drive: DriveVersion{
		Methods: DriveMethodVersions{
			Document: DocumentMethodVersions{ValidateDocumentUniqueness: 0, QueryDocuments: 0},
			Contract: ContractMethodVersions{FetchContract: 0},
			Identity: IdentityMethodVersions{FetchIdentity: 0},
		},
	},
	DriveABCI: DriveABCIVersion{
		ValidationAndProcessing: ValidationAndProcessingVersions{
			ProcessStateTransition: 0,
			StateTransitions: StateTransitionValidationVersions{
				IdentityCreate:           allZeroStages,
				IdentityUpdate:           allZeroStages,
				IdentityTopUp:            allZeroStages,
				IdentityCreditWithdrawal: allZeroStages,
				IdentityCreditTransfer:   allZeroStages,
				ContractCreate:           allZeroStages,
				ContractUpdate:           allZeroStages,
				DocumentsBatch:           allZeroStages,
			},
			DataTriggers: DataTriggerVersions{},
		},
	},
}

var platformVersions = []PlatformVersion{platformV1}

// LatestProtocolVersion is the newest protocol version this node knows.
const LatestProtocolVersion uint32 = 1

// Get returns the platform version for a protocol version. Protocol versions
// start at 1.
func Get(protocolVersion uint32) (*PlatformVersion, error) {
	if protocolVersion == 0 || int(protocolVersion) > len(platformVersions) {
		return nil, &commonerrors.UnknownProtocolVersionError{Version: protocolVersion}
	}
	pv := platformVersions[protocolVersion-1]
	return &pv, nil
}

// Latest returns the newest platform version.
func Latest() *PlatformVersion {
	pv := platformVersions[len(platformVersions)-1]
	return &pv
}

// First returns the oldest platform version.
func First() *PlatformVersion {
	pv := platformVersions[0]
	return &pv
}

// Versions returns every known protocol version.
func Versions() []uint32 {
	versions := make([]uint32, len(platformVersions))
	for i, pv := range platformVersions {
		versions[i] = pv.ProtocolVersion
	}
	return versions
}

func (pv *PlatformVersion) ValidateContractVersion(v FeatureVersion) *consensus.SimpleValidationResult {
	return pv.DPP.Contract.ContractSerializationVersion.Validate(v)
}

func (pv *PlatformVersion) ValidateIdentityCreateVersion(v FeatureVersion) *consensus.SimpleValidationResult {
	return pv.DPP.StateTransitionSerializationVersions.IdentityCreate.Validate(v)
}

func (pv *PlatformVersion) ValidateIdentityUpdateVersion(v FeatureVersion) *consensus.SimpleValidationResult {
	return pv.DPP.StateTransitionSerializationVersions.IdentityUpdate.Validate(v)
}

func (pv *PlatformVersion) ValidateIdentityTopUpVersion(v FeatureVersion) *consensus.SimpleValidationResult {
	return pv.DPP.StateTransitionSerializationVersions.IdentityTopUp.Validate(v)
}

func (pv *PlatformVersion) ValidateIdentityCreditWithdrawalVersion(v FeatureVersion) *consensus.SimpleValidationResult {
	return pv.DPP.StateTransitionSerializationVersions.IdentityCreditWithdrawal.Validate(v)
}

func (pv *PlatformVersion) ValidateIdentityCreditTransferVersion(v FeatureVersion) *consensus.SimpleValidationResult {
	return pv.DPP.StateTransitionSerializationVersions.IdentityCreditTransfer.Validate(v)
}

func (pv *PlatformVersion) ValidateContractCreateVersion(v FeatureVersion) *consensus.SimpleValidationResult {
	return pv.DPP.StateTransitionSerializationVersions.ContractCreate.Validate(v)
}

func (pv *PlatformVersion) ValidateContractUpdateVersion(v FeatureVersion) *consensus.SimpleValidationResult {
	return pv.DPP.StateTransitionSerializationVersions.ContractUpdate.Validate(v)
}

func (pv *PlatformVersion) ValidateDocumentsBatchVersion(v FeatureVersion) *consensus.SimpleValidationResult {
	return pv.DPP.StateTransitionSerializationVersions.DocumentsBatch.Validate(v)
}
