/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation_test

import (
	"context"

	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/staterepository/kvrepository"
	"github.com/dashpay/platform-drive/core/statestore"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/validation"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const plainNoteSchema = `{
	"type": "object",
	"properties": {"text": {"type": "string", "maxLength": 63}},
	"additionalProperties": false
}`

const fixedNoteSchema = `{
	"type": "object",
	"documentsMutable": false,
	"properties": {"text": {"type": "string", "maxLength": 63}},
	"additionalProperties": false
}`

func contractOf(owner identifier.Identifier, seed, schema string, config *datacontract.Config) *datacontract.CreatedDataContract {
	f, err := datacontract.NewFactory(version.LatestProtocolVersion, nil)
	Expect(err).NotTo(HaveOccurred())
	f.EntropyGenerator = func() ([]byte, error) { return crypto.SHA256([]byte(seed)), nil }
	note, err := value.FromJSON([]byte(schema))
	Expect(err).NotTo(HaveOccurred())
	created, err := f.Create(owner, map[string]value.Value{"note": note}, config, nil)
	Expect(err).NotTo(HaveOccurred())
	return created
}

var _ = Describe("State rules", func() {
	var (
		ctx     context.Context
		repo    *kvrepository.Repository
		owner   *identity.Identity
		bv      *validation.BlockValidator
		created *datacontract.CreatedDataContract
	)

	validate := func(raw ...[]byte) *validation.BlockResult {
		result, err := bv.ValidateBlock(ctx, raw)
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	createContract := func(c *datacontract.CreatedDataContract) {
		st, err := statetransition.NewDataContractCreateTransition(c)
		Expect(err).NotTo(HaveOccurred())
		result := validate(signed(st, 2))
		Expect(result.Results[0].ErrorList()).To(BeEmpty())
	}

	BeforeEach(func() {
		ctx = context.Background()
		store, err := statestore.Open(statestore.Config{Backend: statestore.BackendMemory})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		repo = kvrepository.New(store, version.Latest())
		Expect(repo.SetBlockInfo(&staterepository.BlockHeader{
			Height:                7,
			Time:                  staterepository.BlockTime{Seconds: blockSeconds},
			CoreChainLockedHeight: 50,
		})).To(Succeed())

		owner = newIdentity("owner", 100000)
		Expect(repo.CreateIdentity(ctx, owner, nil)).To(Succeed())
		bv = &validation.BlockValidator{
			Platform: &validation.Platform{Repository: repo, ProtocolVersion: version.LatestProtocolVersion},
		}
		created = noteContract(owner.ID)
	})

	Describe("data contract create", func() {
		It("rejects a contract that is already present", func() {
			createContract(created)

			again, err := statetransition.NewDataContractCreateTransition(created)
			Expect(err).NotTo(HaveOccurred())
			result := validate(signed(again, 2))
			Expect(result.Invalid.Test(0)).To(BeTrue())
			Expect(result.Results[0].FirstError()).To(Equal(&consensus.DataContractAlreadyPresentError{
				DataContractID: created.DataContract.ID(),
			}))
		})

		It("rejects a contract id not derived from owner and entropy", func() {
			st, err := statetransition.NewDataContractCreateTransition(created)
			Expect(err).NotTo(HaveOccurred())
			st.Entropy[0] ^= 0xff

			result := validate(signed(st, 2))
			Expect(result.Invalid.Test(0)).To(BeTrue())
			Expect(result.Results[0].FirstError()).To(Equal(&consensus.InvalidDataContractIDError{
				ExpectedID: datacontract.GenerateDataContractID(owner.ID, st.Entropy[:]).Bytes(),
				InvalidID:  created.DataContract.ID().Bytes(),
			}))
		})
	})

	Describe("data contract update", func() {
		update := func(c datacontract.DataContract) *validation.BlockResult {
			st, err := statetransition.NewDataContractUpdateTransition(c)
			Expect(err).NotTo(HaveOccurred())
			return validate(signed(st, 2))
		}

		nextVersion := func(c datacontract.DataContract, config datacontract.Config) datacontract.DataContract {
			v0, err := datacontract.AsV0(c)
			Expect(err).NotTo(HaveOccurred())
			updated, err := datacontract.NewV0(v0.ID(), v0.OwnerID(), v0.Version()+1, v0.Schema(), config, v0.Documents(), v0.Defs())
			Expect(err).NotTo(HaveOccurred())
			return updated
		}

		It("accepts the next version", func() {
			createContract(created)
			result := update(nextVersion(created.DataContract, created.DataContract.Config()))
			Expect(result.Results[0].ErrorList()).To(BeEmpty())

			stored, err := repo.FetchDataContract(ctx, created.DataContract.ID(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Version()).To(Equal(uint32(2)))
		})

		It("rejects an update of a missing contract", func() {
			result := update(nextVersion(created.DataContract, created.DataContract.Config()))
			Expect(result.Results[0].FirstError()).To(Equal(&consensus.DataContractNotPresentError{
				DataContractID: created.DataContract.ID(),
			}))
		})

		It("rejects an update of a readonly contract", func() {
			config := datacontract.DefaultConfig()
			config.Readonly = true
			readonly := contractOf(owner.ID, "readonly", plainNoteSchema, &config)
			createContract(readonly)

			result := update(nextVersion(readonly.DataContract, config))
			Expect(result.Results[0].ErrorList()).To(Equal([]consensus.Error{&consensus.DataContractIsReadonlyError{
				DataContractID: readonly.DataContract.ID(),
			}}))
		})

		It("rejects a version that skips ahead", func() {
			createContract(created)
			v0, err := datacontract.AsV0(nextVersion(created.DataContract, created.DataContract.Config()))
			Expect(err).NotTo(HaveOccurred())
			v0.SetVersion(5)

			result := update(v0)
			Expect(result.Results[0].ErrorList()).To(Equal([]consensus.Error{&consensus.InvalidDataContractVersionError{
				ExpectedVersion: 2,
				Version:         5,
			}}))
		})

		It("rejects a config change", func() {
			createContract(created)
			config := created.DataContract.Config()
			config.KeepsHistory = !config.KeepsHistory

			result := update(nextVersion(created.DataContract, config))
			Expect(result.Results[0].ErrorList()).To(Equal([]consensus.Error{&consensus.DataContractConfigUpdateError{
				DataContractID: created.DataContract.ID(),
				Message:        "keepsHistory can not be changed",
			}}))
		})
	})

	Describe("documents batch", func() {
		var (
			contractID identifier.Identifier
			stranger   *identity.Identity
		)

		batchOf := func(ownerID identifier.Identifier, transitions ...statetransition.DocumentTransition) *statetransition.DocumentsBatchTransitionV0 {
			return &statetransition.DocumentsBatchTransitionV0{Owner: ownerID, Transitions: transitions}
		}

		replaceNote := func(seed byte, revision uint64, text string) *statetransition.DocumentReplaceTransition {
			var entropy [32]byte
			entropy[0] = seed
			return &statetransition.DocumentReplaceTransition{
				DocumentBaseTransition: statetransition.DocumentBaseTransition{
					ID:             document.GenerateDocumentID(contractID, owner.ID, "note", entropy[:]),
					DocumentType:   "note",
					DataContractID: contractID,
				},
				Revision: revision,
				Data:     map[string]value.Value{"text": value.NewText(text)},
			}
		}

		BeforeEach(func() {
			createContract(created)
			contractID = created.DataContract.ID()
			stranger = newIdentity("stranger", 100000)
			Expect(repo.CreateIdentity(ctx, stranger, nil)).To(Succeed())

			result := validate(signed(batchOf(owner.ID, createNote(owner.ID, contractID, 1, "hello")), 3))
			Expect(result.Results[0].ErrorList()).To(BeEmpty())
		})

		It("rejects a document that is already present", func() {
			dup := createNote(owner.ID, contractID, 1, "hello again")
			result := validate(signed(batchOf(owner.ID, dup), 3))
			Expect(result.Results[0].ErrorList()).To(Equal([]consensus.Error{&consensus.DocumentAlreadyPresentError{
				DocumentID: dup.ID,
			}}))
		})

		It("rejects a create whose id is not derived from its entropy", func() {
			create := createNote(owner.ID, contractID, 2, "hello")
			expected := create.ID
			create.ID = idFor("elsewhere")

			result := validate(signed(batchOf(owner.ID, create), 3))
			Expect(result.Results[0].ErrorList()).To(Equal([]consensus.Error{&consensus.InvalidDocumentTransitionIDError{
				ExpectedID: expected,
				InvalidID:  idFor("elsewhere"),
			}}))
		})

		It("rejects different createdAt and updatedAt on create", func() {
			create := createNote(owner.ID, contractID, 2, "hello")
			createdAt, updatedAt := uint64(blockSeconds*1000), uint64(blockSeconds*1000+1)
			create.CreatedAt, create.UpdatedAt = &createdAt, &updatedAt

			result := validate(signed(batchOf(owner.ID, create), 3))
			Expect(result.Results[0].ErrorList()).To(Equal([]consensus.Error{&consensus.DocumentTimestampsMismatchError{
				DocumentID: create.ID,
			}}))
		})

		It("rejects a replace of a missing document", func() {
			replace := replaceNote(9, 2, "nothing")
			result := validate(signed(batchOf(owner.ID, replace), 3))
			Expect(result.Results[0].ErrorList()).To(Equal([]consensus.Error{&consensus.DocumentNotFoundError{
				DocumentID: replace.ID,
			}}))
		})

		It("rejects a delete by another owner", func() {
			replace := replaceNote(1, 2, "mine")
			del := &statetransition.DocumentDeleteTransition{DocumentBaseTransition: replace.DocumentBaseTransition}
			result := validate(signed(batchOf(stranger.ID, del), 3))
			Expect(result.Results[0].ErrorList()).To(Equal([]consensus.Error{&consensus.DocumentOwnerIDMismatchError{
				DocumentID:              del.ID,
				DocumentOwnerID:         stranger.ID,
				ExistingDocumentOwnerID: owner.ID,
			}}))
		})

		It("requires the next revision on replace", func() {
			result := validate(signed(batchOf(owner.ID, replaceNote(1, 5, "skipped")), 3))
			Expect(result.Results[0].FirstError()).To(Equal(&consensus.InvalidDocumentRevisionError{
				DocumentID:      replaceNote(1, 5, "").ID,
				CurrentRevision: 1,
			}))

			result = validate(signed(batchOf(owner.ID, replaceNote(1, 2, "updated")), 3))
			Expect(result.Results[0].ErrorList()).To(BeEmpty())

			result = validate(signed(batchOf(owner.ID, replaceNote(1, 2, "stale")), 3))
			Expect(result.Results[0].FirstError()).To(Equal(&consensus.InvalidDocumentRevisionError{
				DocumentID:      replaceNote(1, 2, "").ID,
				CurrentRevision: 2,
			}))
		})

		It("rejects a replace of an immutable document type", func() {
			fixed := contractOf(owner.ID, "fixed", fixedNoteSchema, nil)
			createContract(fixed)
			fixedID := fixed.DataContract.ID()
			create := createNote(owner.ID, fixedID, 1, "carved")
			result := validate(signed(batchOf(owner.ID, create), 3))
			Expect(result.Results[0].ErrorList()).To(BeEmpty())

			replace := &statetransition.DocumentReplaceTransition{
				DocumentBaseTransition: create.DocumentBaseTransition,
				Revision:               2,
				Data:                   map[string]value.Value{"text": value.NewText("recarved")},
			}
			result = validate(signed(batchOf(owner.ID, replace), 3))
			Expect(result.Results[0].ErrorList()).To(Equal([]consensus.Error{&consensus.DocumentNotMutableError{
				DocumentID:   create.ID,
				DocumentType: "note",
			}}))
		})
	})
})
