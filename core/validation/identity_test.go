/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation_test

import (
	"bytes"
	"context"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/staterepository/kvrepository"
	"github.com/dashpay/platform-drive/core/statestore"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/validation"
	"github.com/dashpay/platform-drive/core/version"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// assetLockTransaction locks duffs to the one-time key. nonce makes the
// transaction id unique.
func assetLockTransaction(oneTimeKey []byte, duffs int64, nonce uint32) []byte {
	signer, err := crypto.NewECDSASigner(oneTimeKey)
	Expect(err).NotTo(HaveOccurred())
	script, err := txscript.NullDataScript(signer.PublicKeyHash())
	Expect(err).NotTo(HaveOccurred())

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: nonce}, nil, nil))
	tx.AddTxOut(wire.NewTxOut(duffs, script))
	var buf bytes.Buffer
	Expect(tx.Serialize(&buf)).To(Succeed())
	return buf.Bytes()
}

func instantProof(oneTimeKey []byte, duffs int64, nonce uint32) *identity.InstantAssetLockProof {
	return &identity.InstantAssetLockProof{
		InstantLock: []byte{1},
		Transaction: assetLockTransaction(oneTimeKey, duffs, nonce),
	}
}

var _ = Describe("Identity funding", func() {
	var (
		ctx        context.Context
		repo       *kvrepository.Repository
		bv         *validation.BlockValidator
		oneTimeKey []byte
	)

	BeforeEach(func() {
		ctx = context.Background()
		store, err := statestore.Open(statestore.Config{Backend: statestore.BackendMemory})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		repo = kvrepository.New(store, version.Latest())
		Expect(repo.SetBlockInfo(&staterepository.BlockHeader{
			Height:                1,
			Time:                  staterepository.BlockTime{Seconds: blockSeconds},
			CoreChainLockedHeight: 50,
		})).To(Succeed())
		bv = &validation.BlockValidator{
			Platform: &validation.Platform{Repository: repo, ProtocolVersion: version.LatestProtocolVersion},
		}
		oneTimeKey = keyBytes(0x41)
	})

	identityCreate := func(proof identity.AssetLockProof) *statetransition.IdentityCreateTransitionV0 {
		key := func(id identity.KeyID, level identity.SecurityLevel, secret byte) statetransition.IdentityPublicKeyInCreation {
			signer, err := crypto.NewECDSASigner(keyBytes(secret))
			Expect(err).NotTo(HaveOccurred())
			return statetransition.IdentityPublicKeyInCreation{
				ID:            id,
				Type:          identity.KeyTypeECDSASecp256k1,
				Purpose:       identity.PurposeAuthentication,
				SecurityLevel: level,
				Data:          signer.PublicKey(),
			}
		}
		st := &statetransition.IdentityCreateTransitionV0{
			PublicKeys: []statetransition.IdentityPublicKeyInCreation{
				key(0, identity.SecurityLevelMaster, 1),
				key(1, identity.SecurityLevelHigh, 3),
			},
			AssetLockProof: proof,
		}
		Expect(st.SignPublicKeys(map[identity.KeyID][]byte{0: keyBytes(1), 1: keyBytes(3)})).To(Succeed())
		return st
	}

	serialized := func(st statetransition.StateTransition, privateKey []byte) []byte {
		Expect(statetransition.SignByPrivateKey(st, 0, privateKey)).To(Succeed())
		b, err := statetransition.Serialize(st)
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	It("creates and tops up an identity from asset locks", func() {
		create := identityCreate(instantProof(oneTimeKey, 20000, 1))
		result, err := bv.ValidateBlock(ctx, [][]byte{serialized(create, oneTimeKey)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Results[0].ErrorList()).To(BeEmpty())
		Expect(result.ValidCount()).To(Equal(1))

		created, err := repo.FetchIdentity(ctx, create.IdentityID(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).NotTo(BeNil())
		Expect(created.Balance).To(Equal(uint64(20000 * 1000)))
		Expect(created.PublicKeyIDs()).To(Equal([]identity.KeyID{0, 1}))

		topUp := &statetransition.IdentityTopUpTransitionV0{
			AssetLockProof: instantProof(oneTimeKey, 500, 2),
			IdentityID:     create.IdentityID(),
		}
		result, err = bv.ValidateBlock(ctx, [][]byte{serialized(topUp, oneTimeKey)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Results[0].ErrorList()).To(BeEmpty())

		created, err = repo.FetchIdentity(ctx, create.IdentityID(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Balance).To(Equal(uint64(20500 * 1000)))

		credits, err := repo.SystemCredits()
		Expect(err).NotTo(HaveOccurred())
		Expect(credits).To(Equal(uint64(20500 * 1000)))
	})

	It("rejects a reused asset lock", func() {
		proof := instantProof(oneTimeKey, 20000, 1)
		first := identityCreate(proof)
		result, err := bv.ValidateBlock(ctx, [][]byte{serialized(first, oneTimeKey)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.ValidCount()).To(Equal(1))

		again := &statetransition.IdentityTopUpTransitionV0{AssetLockProof: proof, IdentityID: first.IdentityID()}
		result, err = bv.ValidateBlock(ctx, [][]byte{serialized(again, oneTimeKey)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Invalid.Test(0)).To(BeTrue())
		Expect(result.Results[0].FirstError()).To(BeAssignableToTypeOf(&consensus.IdentityAssetLockTransactionOutPointAlreadyExistsError{}))
	})

	It("rejects a transition signed by another key than the locked one", func() {
		create := identityCreate(instantProof(oneTimeKey, 20000, 1))
		result, err := bv.ValidateBlock(ctx, [][]byte{serialized(create, keyBytes(0x42))})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.ValidCount()).To(BeZero())
		Expect(result.Results[0].FirstError()).To(Equal(&consensus.InvalidStateTransitionSignatureError{}))
	})

	It("requires a master key", func() {
		create := identityCreate(instantProof(oneTimeKey, 20000, 1))
		create.PublicKeys = create.PublicKeys[1:]
		result, err := bv.ValidateBlock(ctx, [][]byte{serialized(create, oneTimeKey)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Results[0].FirstError()).To(Equal(&consensus.MissingMasterPublicKeyError{}))
	})
})
