package dnskvclient

/*
 * upload.go
 * Send a key/value pair to the server
 * Created 20250117
 * Last Modified 20250302
 */

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/net/dns/dnsmessage"

	dnskv "github.com/syndrowm/dns-kv"
)

// Put stores value under key on the server.  The encoded pair is split
// into label-sized chunks, each carried in the name of one AAAA query and
// acknowledged before the next is sent, then committed with a final A
// query bearing only the upload's transaction id.  The server's replies
// acknowledge receipt only; their content is not validated.
func (c *Client) Put(key, value string) error {
	text, err := dnskv.EncodeMessage(dnskv.Message{
		Key:   key,
		Value: value,
	})
	if nil != err {
		return err
	}

	/* Fresh transaction id correlates this upload's chunks */
	tx, err := newTxID()
	if nil != err {
		return err
	}

	/* Chunks are strictly ordered; each waits for its reply */
	for _, name := range chunkNames(text, tx) {
		if _, err := c.exchange(
			name,
			dnsmessage.TypeAAAA,
		); nil != err {
			return err
		}
	}

	/* A bare query for the id commits the upload */
	_, err = c.exchange(tx, dnsmessage.TypeA)
	return err
}

/* chunkNames splits encoded text into upload query names.  Each name is a
chunk and the transaction id separated by a dot, sized so the whole name
fits the 63-octet budget. */
func chunkNames(text, tx string) []string {
	var (
		size  = dnskv.MaxLabel - len(tx) - 1
		names = make([]string, 0, 1+len(text)/size)
	)
	for start := 0; start < len(text); start += size {
		end := start + size
		if len(text) < end {
			end = len(text)
		}
		names = append(names, text[start:end]+"."+tx)
	}
	return names
}

/* newTxID returns a fresh random hex transaction id.  The width is fixed
so every upload gets the same chunk size. */
func newTxID() (string, error) {
	b := make([]byte, 2)
	if _, err := rand.Read(b); nil != err {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
