// Package dnskv tunnels key/value pairs over the DNS query/response channel.
//
// A pair is carried as a Message, serialized to bytes and then to
// DNS-label-safe text by EncodeMessage.  The client side
// (dnskvclient) splits the text across query names; the server side
// (dnskvserver) reassembles it, stores it, and pages it back out in
// TXT answers.
package dnskv

/*
 * dnskv.go
 * Key/value message and its text codec
 * Created 20250114
 * Last Modified 20250302
 */

import (
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

const (
	// MaxLabel is the longest name a single upload query may carry.  DNS
	// limits each label to 63 octets; upload chunk names keep the whole
	// chunk-plus-transaction-id name within that budget.
	MaxLabel = 63

	// MaxSlice is the most bytes of a stored value returned in one
	// download read.  It is the length limit of a single DNS
	// character-string.
	MaxSlice = 255
)

var (
	// ErrBadEncoding indicates text which is not valid unpadded base32.
	ErrBadEncoding = errors.New("invalid base32 text")

	// ErrBadMessage indicates decoded bytes which do not deserialize to
	// a Message.
	ErrBadMessage = errors.New("invalid message serialization")
)

/* b32er turns bytes into DNS-label-safe text.  The extended hex alphabet
(0-9A-V) has no characters with meaning in DNS names, and padding is
unnecessary. */
var b32er = base32.HexEncoding.WithPadding(base32.NoPadding)

/* encMode serializes Messages deterministically, so encoding the same
Message always produces the same text.  decMode rejects unknown fields. */
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); nil != err {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if nil != err {
		panic(err)
	}
}

// Message is the logical unit of storage: one key and its value.  Neither
// field is length-limited beyond what chunking accommodates.
type Message struct {
	Key   string `cbor:"key"`
	Value string `cbor:"value"`
}

// EncodeMessage serializes m and encodes it as DNS-label-safe text.  The
// text is uppercase, contains no padding, and survives the case-folding
// DNS applies to names on the wire.
func EncodeMessage(m Message) (string, error) {
	b, err := encMode.Marshal(m)
	if nil != err {
		return "", err
	}
	return b32er.EncodeToString(b), nil
}

// DecodeMessage is the exact inverse of EncodeMessage.  Text is case-folded
// to uppercase before decoding.  ErrBadEncoding is returned for text outside
// the encoding alphabet and ErrBadMessage for bytes which do not deserialize
// to a Message.
func DecodeMessage(s string) (Message, error) {
	var m Message
	b, err := b32er.DecodeString(strings.ToUpper(s))
	if nil != err {
		return Message{}, fmt.Errorf("%w: %s", ErrBadEncoding, err)
	}
	if err := decMode.Unmarshal(b, &m); nil != err {
		return Message{}, fmt.Errorf("%w: %s", ErrBadMessage, err)
	}
	return m, nil
}
