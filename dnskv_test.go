package dnskv

/*
 * dnskv_test.go
 * Test functions for dnskv.go
 * Created 20250114
 * Last Modified 20250302
 */

import (
	"errors"
	"strings"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	for _, c := range []Message{
		{"HELLO", "WORLD"},
		{"hello", "world"},
		{"", ""},
		{"k", ""},
		{"", "v"},
		{"key with spaces", "value\nwith\nnewlines"},
		{"møøse", "ünïcode välüe"},
		{"big", strings.Repeat("0123456789", 500)},
	} {
		enc, err := EncodeMessage(c)
		if nil != err {
			t.Fatalf("EncodeMessage error: have:%q err:%v", c, err)
		}
		got, err := DecodeMessage(enc)
		if nil != err {
			t.Fatalf("DecodeMessage error: have:%q err:%v", c, err)
		}
		if got != c {
			t.Fatalf(
				"Round trip failed: have:%q got:%q",
				c,
				got,
			)
		}
	}
}

func TestEncodeMessage_Deterministic(t *testing.T) {
	m := Message{Key: "HELLO", Value: "WORLD"}
	a, err := EncodeMessage(m)
	if nil != err {
		t.Fatalf("EncodeMessage error: %v", err)
	}
	b, err := EncodeMessage(m)
	if nil != err {
		t.Fatalf("EncodeMessage error: %v", err)
	}
	if a != b {
		t.Fatalf("Encoding not deterministic: %q != %q", a, b)
	}
}

func TestEncodeMessage_LabelSafe(t *testing.T) {
	enc, err := EncodeMessage(Message{Key: "k", Value: "v"})
	if nil != err {
		t.Fatalf("EncodeMessage error: %v", err)
	}
	for _, r := range enc {
		if !strings.ContainsRune(
			"0123456789ABCDEFGHIJKLMNOPQRSTUV",
			r,
		) {
			t.Fatalf("Unsafe character %q in %q", r, enc)
		}
	}
}

func TestDecodeMessage_CaseFolds(t *testing.T) {
	m := Message{Key: "HELLO", Value: "WORLD"}
	enc, err := EncodeMessage(m)
	if nil != err {
		t.Fatalf("EncodeMessage error: %v", err)
	}
	got, err := DecodeMessage(strings.ToLower(enc))
	if nil != err {
		t.Fatalf("DecodeMessage error: %v", err)
	}
	if got != m {
		t.Fatalf("Case-folded decode failed: got:%q want:%q", got, m)
	}
}

func TestDecodeMessage_Errors(t *testing.T) {
	for _, c := range []struct {
		have string
		want error
	}{
		{"!!!!", ErrBadEncoding},    /* Outside the alphabet */
		{"ZZZZZZZZ", ErrBadEncoding}, /* Hex alphabet stops at V */
		{"", ErrBadMessage},          /* No bytes at all */
		{"AA", ErrBadMessage},        /* One byte, not a Message */
	} {
		_, err := DecodeMessage(c.have)
		if !errors.Is(err, c.want) {
			t.Fatalf(
				"DecodeMessage error: have:%q got:%v want:%v",
				c.have,
				err,
				c.want,
			)
		}
	}
}
