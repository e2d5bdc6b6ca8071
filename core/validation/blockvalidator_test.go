/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation_test

import (
	"context"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	promprovider "github.com/dashpay/platform-drive/common/metrics/prometheus"
	"github.com/dashpay/platform-drive/common/semaphore"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/staterepository/kvrepository"
	"github.com/dashpay/platform-drive/core/statestore"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/systemcontracts"
	"github.com/dashpay/platform-drive/core/validation"
	"github.com/dashpay/platform-drive/core/version"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ = Describe("BlockValidator", func() {
	var (
		ctx       context.Context
		repo      *kvrepository.Repository
		owner     *identity.Identity
		recipient *identity.Identity
		registry  *prom.Registry
		platform  *validation.Platform
		bv        *validation.BlockValidator
	)

	BeforeEach(func() {
		ctx = context.Background()
		store, err := statestore.Open(statestore.Config{Backend: statestore.BackendMemory})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		repo = kvrepository.New(store, version.Latest())
		Expect(repo.SetBlockInfo(&staterepository.BlockHeader{
			Height:                3,
			Time:                  staterepository.BlockTime{Seconds: blockSeconds},
			CoreChainLockedHeight: 50,
		})).To(Succeed())

		owner = newIdentity("owner", 100000)
		recipient = newIdentity("recipient", 0)
		Expect(repo.CreateIdentity(ctx, owner, nil)).To(Succeed())
		Expect(repo.CreateIdentity(ctx, recipient, nil)).To(Succeed())

		registry = prom.NewRegistry()
		platform = &validation.Platform{
			Repository:      repo,
			ProtocolVersion: version.LatestProtocolVersion,
			Metrics:         validation.NewMetrics(&promprovider.Provider{Registerer: registry}),
		}
		bv = &validation.BlockValidator{
			Platform:  platform,
			Semaphore: semaphore.New(2),
			Clock:     fakeclock.NewFakeClock(time.Unix(blockSeconds, 0)),
		}
	})

	It("applies a contract and the documents created with it in the same block", func() {
		created := noteContract(owner.ID)
		contractID := created.DataContract.ID()
		dc, err := statetransition.NewDataContractCreateTransition(created)
		Expect(err).NotTo(HaveOccurred())

		batch := &statetransition.DocumentsBatchTransitionV0{
			Owner: owner.ID,
			Transitions: statetransition.DocumentTransitions{
				createNote(owner.ID, contractID, 1, "hello"),
				createNote(owner.ID, contractID, 2, "world"),
			},
		}

		result, err := bv.ValidateBlock(ctx, [][]byte{signed(dc, 2), signed(batch, 3)})
		Expect(err).NotTo(HaveOccurred())
		for _, r := range result.Results {
			Expect(r.ErrorList()).To(BeEmpty())
		}
		Expect(result.ValidCount()).To(Equal(2))
		Expect(result.Invalid.Any()).To(BeFalse())

		stored, err := repo.FetchDataContract(ctx, contractID, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).NotTo(BeNil())

		docs, err := repo.FetchDocuments(ctx, contractID, "note", staterepository.Query{}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(2))
		for _, d := range docs {
			Expect(d.OwnerID).To(Equal(owner.ID))
		}

		count, err := testutil.GatherAndCount(registry, "drive_validation_transitions_validated")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(2))
	})

	It("rejects documents of a contract that does not exist yet", func() {
		created := noteContract(owner.ID)
		batch := &statetransition.DocumentsBatchTransitionV0{
			Owner:       owner.ID,
			Transitions: statetransition.DocumentTransitions{createNote(owner.ID, created.DataContract.ID(), 1, "hello")},
		}

		result, err := bv.ValidateBlock(ctx, [][]byte{signed(batch, 3)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.ValidCount()).To(BeZero())
		Expect(result.Results[0].FirstError()).To(BeAssignableToTypeOf(&consensus.DataContractNotPresentError{}))
	})

	It("skips invalid transitions and applies the rest in order", func() {
		stale := &statetransition.IdentityCreditWithdrawalTransitionV0{
			IdentityID:     owner.ID,
			Amount:         5000,
			CoreFeePerByte: 1,
			OutputScript:   p2pkh(),
			Revision:       5,
		}
		transfer := &statetransition.IdentityCreditTransferTransitionV0{
			IdentityID:  owner.ID,
			RecipientID: recipient.ID,
			Amount:      2500,
		}
		withdrawal := &statetransition.IdentityCreditWithdrawalTransitionV0{
			IdentityID:     owner.ID,
			Amount:         5000,
			CoreFeePerByte: 2,
			OutputScript:   p2pkh(),
			Revision:       2,
		}

		result, err := bv.ValidateBlock(ctx, [][]byte{signed(stale, 1), signed(transfer, 1), signed(withdrawal, 1)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Invalid.Test(0)).To(BeTrue())
		Expect(result.Invalid.Test(1)).To(BeFalse())
		Expect(result.Invalid.Test(2)).To(BeFalse())
		Expect(result.Results[0].FirstError()).To(Equal(&consensus.InvalidIdentityRevisionError{IdentityID: owner.ID, CurrentRevision: 1}))

		sender, err := repo.FetchIdentity(ctx, owner.ID, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(sender.Balance).To(Equal(uint64(100000 - 2500 - 5000)))
		Expect(sender.Revision).To(Equal(uint64(2)))

		receiver, err := repo.FetchIdentity(ctx, recipient.ID, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(receiver.Balance).To(Equal(uint64(2500)))

		queued, err := repo.FetchDocuments(ctx, systemcontracts.WithdrawalsContractID, systemcontracts.WithdrawalDocumentType, staterepository.Query{}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(queued).To(HaveLen(1))
		Expect(*queued[0].CreatedAt).To(Equal(uint64(blockSeconds * 1000)))
	})

	It("reads state without writing it in a dry run", func() {
		withdrawal := &statetransition.IdentityCreditWithdrawalTransitionV0{
			IdentityID:     owner.ID,
			Amount:         5000,
			CoreFeePerByte: 1,
			OutputScript:   p2pkh(),
			Revision:       2,
		}
		signed(withdrawal, 1)

		ec := staterepository.NewExecutionContext()
		ec.EnableDryRun()
		result, err := validation.ProcessStateTransition(ctx, platform, withdrawal, ec)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsValid()).To(BeTrue())
		Expect(result.Data()).To(BeAssignableToTypeOf(&action.IdentityCreditWithdrawalActionV0{}))
		Expect(validation.Apply(ctx, repo, result.Data(), ec)).To(Succeed())
		Expect(ec.ReadOperations()).NotTo(BeEmpty())

		stored, err := repo.FetchIdentity(ctx, owner.ID, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Balance).To(Equal(uint64(100000)))
		Expect(stored.Revision).To(Equal(uint64(1)))

		poor := &statetransition.IdentityCreditWithdrawalTransitionV0{
			IdentityID:     recipient.ID,
			Amount:         5000,
			CoreFeePerByte: 1,
			OutputScript:   p2pkh(),
			Revision:       2,
		}
		signed(poor, 1)
		result, err = validation.ProcessStateTransition(ctx, platform, poor, ec)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsValid()).To(BeTrue())
		Expect(result.HasData()).To(BeFalse())
	})
})
