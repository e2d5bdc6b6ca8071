/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestUnknownVersionMismatchError(t *testing.T) {
	err := &UnknownVersionMismatchError{
		Method:        "identity update transition: validate_structure",
		KnownVersions: []uint16{0},
		Received:      3,
	}
	require.EqualError(t, err, "unknown version mismatch for method identity update transition: validate_structure: known versions [0], received 3")
}

func TestErrorsSurviveWrapping(t *testing.T) {
	var wrapped error = pkgerrors.Wrap(&MaxEncodedBytesReachedError{MaxSizeBytes: 100, SizeHit: 97}, "serializing transition")

	var tooBig *MaxEncodedBytesReachedError
	require.True(t, errors.As(wrapped, &tooBig))
	require.Equal(t, uint64(100), tooBig.MaxSizeBytes)
	require.Equal(t, uint64(97), tooBig.SizeHit)
	require.EqualError(t, tooBig, "max encoded bytes reached: limit 100, size hit 97")

	var malformed *PlatformDeserializationError
	require.False(t, errors.As(wrapped, &malformed))
}

func TestMessages(t *testing.T) {
	require.EqualError(t, &UnknownProtocolVersionError{Version: 0}, "unknown protocol version 0")
	require.EqualError(t, &StateRepositoryFetchError{Reason: "boom"}, "state repository fetch error: boom")
	require.EqualError(t, &PlatformDeserializationError{Reason: "eof"}, "platform deserialization error: eof")
	require.EqualError(t, &GenericError{Reason: "plain"}, "plain")
}
