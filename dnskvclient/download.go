package dnskvclient

/*
 * download.go
 * Retrieve a stored value from the server
 * Created 20250117
 * Last Modified 20250302
 */

import (
	"errors"
	"strings"

	"golang.org/x/net/dns/dnsmessage"

	dnskv "github.com/syndrowm/dns-kv"
)

var (
	// ErrNotFound is returned by Get when the server has no value stored
	// under the requested key.
	ErrNotFound = errors.New("key not found")

	// ErrNoAnswer is returned when a reply contained no suitable answer
	// to the query.
	ErrNoAnswer = errors.New("no suitable answer returned")
)

// Get retrieves the value stored under key.  The stored text is read in
// TXT slices of at most 255 bytes; a shorter (possibly empty) slice marks
// the end.  Reads consume the value server-side, so a second Get for the
// same key returns ErrNotFound until the key is set again.  The key must
// fit in a DNS query name.
func (c *Client) Get(key string) (dnskv.Message, error) {
	var (
		sb   strings.Builder
		name = strings.ToUpper(key)
	)
	for {
		m, err := c.exchange(name, dnsmessage.TypeTXT)
		if nil != err {
			return dnskv.Message{}, err
		}

		/* The server signals a missing key out-of-band */
		if dnsmessage.RCodeNameError == m.Header.RCode {
			return dnskv.Message{}, ErrNotFound
		}

		s, err := txtString(m)
		if nil != err {
			return dnskv.Message{}, err
		}
		sb.WriteString(s)

		/* A short slice, empty included, is the last one */
		if dnskv.MaxSlice > len(s) {
			break
		}
	}

	return dnskv.DecodeMessage(sb.String())
}

/* txtString extracts the first TXT character-string from the reply. */
func txtString(m *dnsmessage.Message) (string, error) {
	for _, ans := range m.Answers {
		t, ok := ans.Body.(*dnsmessage.TXTResource)
		if !ok || 0 == len(t.TXT) {
			continue
		}
		return t.TXT[0], nil
	}
	return "", ErrNoAnswer
}
