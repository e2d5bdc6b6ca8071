/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package errors holds the system errors of the validation engine. A system
// error means the node itself cannot proceed; it aborts the validation call
// and is never reported to the submitter of a state transition as a verdict.
// Problems with the transition itself are consensus errors and live in
// core/consensus.
package errors

import (
	"fmt"
	"strings"
)

// UnknownVersionMismatchError is returned by every versioned dispatch site
// when the feature version read from the platform version table has no
// implementation on this node.
type UnknownVersionMismatchError struct {
	Method        string
	KnownVersions []uint16
	Received      uint16
}

// Error returns reasons which lead to the failure
func (e *UnknownVersionMismatchError) Error() string {
	known := make([]string, len(e.KnownVersions))
	for i, v := range e.KnownVersions {
		known[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("unknown version mismatch for method %s: known versions [%s], received %d",
		e.Method, strings.Join(known, ", "), e.Received)
}

// UnknownProtocolVersionError is returned when a protocol version has no
// entry in the platform version table.
type UnknownProtocolVersionError struct {
	Version uint32
}

// Error returns reasons which lead to the failure
func (e *UnknownProtocolVersionError) Error() string {
	return fmt.Sprintf("unknown protocol version %d", e.Version)
}

// UnknownVersionError error to indicate a version that could not be
// interpreted at all
type UnknownVersionError struct {
	Reason string
}

// Error returns reasons which lead to the failure
func (e *UnknownVersionError) Error() string {
	return e.Reason
}

// PlatformSerializationError error to indicate a failure while encoding a
// value in the platform binary format
type PlatformSerializationError struct {
	Reason string
}

// Error returns reasons which lead to the failure
func (e *PlatformSerializationError) Error() string {
	return "platform serialization error: " + e.Reason
}

// PlatformDeserializationError error to indicate malformed platform binary
// input
type PlatformDeserializationError struct {
	Reason string
}

// Error returns reasons which lead to the failure
func (e *PlatformDeserializationError) Error() string {
	return "platform deserialization error: " + e.Reason
}

// MaxEncodedBytesReachedError is returned when an encoded value would grow
// beyond the configured limit. Both fields count bytes: MaxSizeBytes is the
// limit and SizeHit the number of bytes already written when it was crossed.
type MaxEncodedBytesReachedError struct {
	MaxSizeBytes uint64
	SizeHit      uint64
}

// Error returns reasons which lead to the failure
func (e *MaxEncodedBytesReachedError) Error() string {
	return fmt.Sprintf("max encoded bytes reached: limit %d, size hit %d", e.MaxSizeBytes, e.SizeHit)
}

// DecodingError error to indicate a failure decoding a text or CBOR encoding
type DecodingError struct {
	Reason string
}

// Error returns reasons which lead to the failure
func (e *DecodingError) Error() string {
	return "decoding error: " + e.Reason
}

// EncodingError error to indicate a failure producing a text or CBOR encoding
type EncodingError struct {
	Reason string
}

// Error returns reasons which lead to the failure
func (e *EncodingError) Error() string {
	return "encoding error: " + e.Reason
}

// FileNotFoundError error to indicate an embedded or configured file is
// missing
type FileNotFoundError struct {
	Path string
}

// Error returns reasons which lead to the failure
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// ValueError error to indicate a dynamic value did not have the shape the
// caller required
type ValueError struct {
	Reason string
}

// Error returns reasons which lead to the failure
func (e *ValueError) Error() string {
	return "value error: " + e.Reason
}

// StateRepositoryFetchError wraps any failure of the state repository. There
// is no retry at this layer.
type StateRepositoryFetchError struct {
	Reason string
}

// Error returns reasons which lead to the failure
func (e *StateRepositoryFetchError) Error() string {
	return "state repository fetch error: " + e.Reason
}

// DataContractNotPresentError is returned when a system code path requires a
// data contract that is not stored
type DataContractNotPresentError struct {
	ID string
}

// Error returns reasons which lead to the failure
func (e *DataContractNotPresentError) Error() string {
	return fmt.Sprintf("data contract %s is not present", e.ID)
}

// CorruptedCodeExecutionError marks a broken internal invariant
type CorruptedCodeExecutionError struct {
	Reason string
}

// Error returns reasons which lead to the failure
func (e *CorruptedCodeExecutionError) Error() string {
	return "corrupted code execution: " + e.Reason
}

// GenericError carries a plain message
type GenericError struct {
	Reason string
}

// Error returns reasons which lead to the failure
func (e *GenericError) Error() string {
	return e.Reason
}
