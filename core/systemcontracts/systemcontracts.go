/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package systemcontracts names the data contracts deployed at genesis and
// the document types and properties the platform itself reads.
package systemcontracts

import (
	"github.com/dashpay/platform-drive/core/identifier"
)

var (
	DPNSContractID                   = identifier.MustFromBase58("GWRSAVFMjXx8HpQFaNJMqBV7MBgMK4br5UESsB4S31Ec")
	DashPayContractID                = identifier.MustFromBase58("Bwr4WHCPz5rFVAD87RqTs3izo4zpzwsEdKPWUT1NS1C7")
	MasternodeRewardSharesContractID = identifier.MustFromBase58("rUnsWrFu3PKyRMGk2mxmZVBPbQuZx2qtHeFjURoQevX")
	FeatureFlagsContractID           = identifier.MustFromBase58("HY1keaRK5bcDmujNCQq5pxNyvAiHHpoHQgLN5ppiu4kh")
	WithdrawalsContractID            = identifier.MustFromBase58("4fJLR2GYTPFdomuTVvNy3VRrvWgvkKPzqehEBpNf2nk6")
)

// document types
const (
	DPNSDomainDocumentType            = "domain"
	DPNSPreorderDocumentType          = "preorder"
	DashPayContactRequestDocumentType = "contactRequest"
	RewardShareDocumentType           = "rewardShare"
	FeatureFlagsUpdateConsensusParams = "updateConsensusParams"
	WithdrawalDocumentType            = "withdrawal"
)

// reward share properties
const (
	RewardSharePayToID      = "payToId"
	RewardSharePercentage   = "percentage"
	RewardShareMaxPercent   = 10000
	RewardShareMaxDocuments = 16
)

// contact request properties
const (
	ContactRequestToUserID              = "toUserId"
	ContactRequestCoreHeightCreatedAt   = "coreHeightCreatedAt"
	ContactRequestCoreHeightBlockWindow = 8
)

// FeatureFlagEnableAtHeight is the block height a feature flag takes effect.
const FeatureFlagEnableAtHeight = "enableAtHeight"

// withdrawal properties
const (
	WithdrawalAmount         = "amount"
	WithdrawalCoreFeePerByte = "coreFeePerByte"
	WithdrawalPooling        = "pooling"
	WithdrawalOutputScript   = "outputScript"
	WithdrawalStatus         = "status"
	WithdrawalTransactionID  = "transactionId"
)

// WithdrawalStatusValue is the lifecycle state of a withdrawal document.
type WithdrawalStatusValue uint8

const (
	WithdrawalQueued WithdrawalStatusValue = iota
	WithdrawalPooled
	WithdrawalBroadcasted
	WithdrawalComplete
	WithdrawalExpired
)

func (s WithdrawalStatusValue) String() string {
	switch s {
	case WithdrawalQueued:
		return "QUEUED"
	case WithdrawalPooled:
		return "POOLED"
	case WithdrawalBroadcasted:
		return "BROADCASTED"
	case WithdrawalComplete:
		return "COMPLETE"
	case WithdrawalExpired:
		return "EXPIRED"
	}
	return "UNKNOWN"
}

// IsSystemContract reports whether id is one of the genesis contracts.
func IsSystemContract(id identifier.Identifier) bool {
	switch id {
	case DPNSContractID, DashPayContractID, MasternodeRewardSharesContractID, FeatureFlagsContractID, WithdrawalsContractID:
		return true
	}
	return false
}
