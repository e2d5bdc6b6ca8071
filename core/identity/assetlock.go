/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/pkg/errors"
)

// OutPointSize is the size of a serialized transaction outpoint.
const OutPointSize = 36

// OutPoint is a transaction id in display byte order followed by the
// little endian output index.
type OutPoint [OutPointSize]byte

// NewOutPoint builds an outpoint from a transaction id in internal byte
// order.
func NewOutPoint(txid chainhash.Hash, index uint32) OutPoint {
	var o OutPoint
	for i := 0; i < chainhash.HashSize; i++ {
		o[i] = txid[chainhash.HashSize-1-i]
	}
	binary.LittleEndian.PutUint32(o[chainhash.HashSize:], index)
	return o
}

// TransactionID returns the transaction id part in display order.
func (o OutPoint) TransactionID() []byte { return append([]byte(nil), o[:chainhash.HashSize]...) }

// OutputIndex returns the output index part.
func (o OutPoint) OutputIndex() uint32 {
	return binary.LittleEndian.Uint32(o[chainhash.HashSize:])
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%x:%d", o.TransactionID(), o.OutputIndex())
}

// AssetLockProofType tags the proof variants.
type AssetLockProofType uint8

const (
	AssetLockProofInstant AssetLockProofType = iota
	AssetLockProofChain
)

// AssetLockProof proves that duffs were locked on the core chain in favour
// of an identity. It is either *InstantAssetLockProof or
// *ChainAssetLockProof.
type AssetLockProof interface {
	ProofType() AssetLockProofType
	OutPoint() OutPoint
	ToObject() value.Value
	isAssetLockProof()
}

// InstantAssetLockProof carries the asset lock transaction and the instant
// send lock that locked it.
type InstantAssetLockProof struct {
	InstantLock []byte
	Transaction []byte
	OutputIndex uint32
}

func (*InstantAssetLockProof) isAssetLockProof() {}

func (*InstantAssetLockProof) ProofType() AssetLockProofType { return AssetLockProofInstant }

// OutPoint is computed from the raw transaction bytes.
func (p *InstantAssetLockProof) OutPoint() OutPoint {
	return NewOutPoint(chainhash.DoubleHashH(p.Transaction), p.OutputIndex)
}

func (p *InstantAssetLockProof) ToObject() value.Value {
	return value.NewMap(map[string]value.Value{
		"type":        value.NewU8(uint8(AssetLockProofInstant)),
		"instantLock": value.NewBytes(p.InstantLock),
		"transaction": value.NewBytes(p.Transaction),
		"outputIndex": value.NewU32(p.OutputIndex),
	})
}

// ChainAssetLockProof references an asset lock transaction mined at or
// below a chain locked core height.
type ChainAssetLockProof struct {
	CoreChainLockedHeight uint32
	OutPointBytes         OutPoint
}

func (*ChainAssetLockProof) isAssetLockProof() {}

func (*ChainAssetLockProof) ProofType() AssetLockProofType { return AssetLockProofChain }

func (p *ChainAssetLockProof) OutPoint() OutPoint { return p.OutPointBytes }

func (p *ChainAssetLockProof) ToObject() value.Value {
	return value.NewMap(map[string]value.Value{
		"type":                  value.NewU8(uint8(AssetLockProofChain)),
		"coreChainLockedHeight": value.NewU32(p.CoreChainLockedHeight),
		"outPoint":              value.NewBytes(p.OutPointBytes[:]),
	})
}

// CreateIdentifier derives the id of the identity funded by the proof.
func CreateIdentifier(p AssetLockProof) identifier.Identifier {
	o := p.OutPoint()
	return identifier.MustFromBytes(crypto.DoubleSHA256(o[:]))
}

// AssetLockProofFromObject parses the object form of a proof.
func AssetLockProofFromObject(raw value.Value) (AssetLockProof, error) {
	obj := raw.Clone()
	if err := obj.ReplaceAtPaths([]string{"instantLock", "transaction", "outPoint"}, value.ReplaceWithBytes); err != nil {
		return nil, err
	}
	item, ok := obj.Get("type")
	if !ok {
		return nil, errors.New("asset lock proof type is not present")
	}
	typ, err := item.AsU8()
	if err != nil {
		return nil, errors.WithMessage(err, "asset lock proof type")
	}
	switch AssetLockProofType(typ) {
	case AssetLockProofInstant:
		p := &InstantAssetLockProof{}
		if p.InstantLock, err = obj.GetBytes("instantLock"); err != nil {
			return nil, err
		}
		if p.Transaction, err = obj.GetBytes("transaction"); err != nil {
			return nil, err
		}
		if p.OutputIndex, err = obj.GetU32("outputIndex"); err != nil {
			return nil, err
		}
		return p, nil
	case AssetLockProofChain:
		p := &ChainAssetLockProof{}
		if p.CoreChainLockedHeight, err = obj.GetU32("coreChainLockedHeight"); err != nil {
			return nil, err
		}
		b, err := obj.GetBytes("outPoint")
		if err != nil {
			return nil, err
		}
		if len(b) != OutPointSize {
			return nil, errors.Errorf("asset lock outpoint must be %d bytes long, got %d", OutPointSize, len(b))
		}
		copy(p.OutPointBytes[:], b)
		return p, nil
	}
	return nil, errors.Errorf("unknown asset lock proof type %d", typ)
}

// EncodeAssetLockProof writes the variant index followed by the proof
// fields.
func EncodeAssetLockProof(e *serialization.Encoder, p AssetLockProof) {
	switch p := p.(type) {
	case *InstantAssetLockProof:
		e.WriteEnum(uint32(AssetLockProofInstant))
		e.Encode(*p)
	case *ChainAssetLockProof:
		e.WriteEnum(uint32(AssetLockProofChain))
		e.Encode(*p)
	default:
		e.Fail(errors.Errorf("unknown asset lock proof %T", p))
	}
}

// DecodeAssetLockProof reverses EncodeAssetLockProof.
func DecodeAssetLockProof(d *serialization.Decoder) AssetLockProof {
	switch variant := d.ReadEnum(); AssetLockProofType(variant) {
	case AssetLockProofInstant:
		p := &InstantAssetLockProof{}
		d.Decode(p)
		return p
	case AssetLockProofChain:
		p := &ChainAssetLockProof{}
		d.Decode(p)
		return p
	default:
		if d.Err() == nil {
			d.Failf("unknown asset lock proof variant %d", variant)
		}
		return nil
	}
}

// AssetLockOutput is the funding output of a valid asset lock transaction.
type AssetLockOutput struct {
	OutPoint OutPoint
	// PublicKeyHash is the hash of the one-time key that signs the
	// transition spending the lock.
	PublicKeyHash []byte
	Duffs         uint64
}

// Credits returns the output value converted to credits.
func (o *AssetLockOutput) Credits() uint64 {
	return o.Duffs * CreditsPerDuff
}

// ValidateAssetLockTransaction parses the raw transaction and checks that
// the output at outputIndex is an OP_RETURN carrying a 20 byte key hash.
// Whether the outpoint was already used is the caller's concern.
func ValidateAssetLockTransaction(raw []byte, outputIndex uint32) *consensus.ValidationResult[*AssetLockOutput] {
	result := consensus.NewValidationResult[*AssetLockOutput]()

	tx := &wire.MsgTx{}
	// special transaction payloads trail the outputs and are ignored
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		result.AddError(&consensus.InvalidIdentityAssetLockTransactionError{Message: err.Error()})
		return result
	}

	if int(outputIndex) >= len(tx.TxOut) {
		result.AddError(&consensus.IdentityAssetLockTransactionOutputNotFoundError{OutputIndex: outputIndex})
		return result
	}
	output := tx.TxOut[outputIndex]

	if txscript.GetScriptClass(output.PkScript) != txscript.NullDataTy {
		result.AddError(&consensus.InvalidIdentityAssetLockTransactionOutputError{OutputIndex: outputIndex})
		return result
	}
	pushes, err := txscript.PushedData(output.PkScript)
	if err != nil || len(pushes) != 1 || len(pushes[0]) != 20 {
		result.AddError(&consensus.InvalidAssetLockTransactionOutputReturnSizeError{OutputIndex: outputIndex})
		return result
	}
	if output.Value < 0 {
		result.AddError(&consensus.InvalidIdentityAssetLockTransactionError{
			Message: fmt.Sprintf("output %d has negative value", outputIndex),
		})
		return result
	}

	result.SetData(&AssetLockOutput{
		OutPoint:      NewOutPoint(chainhash.DoubleHashH(raw), outputIndex),
		PublicKeyHash: pushes[0],
		Duffs:         uint64(output.Value),
	})
	return result
}
