package dnskvclient

/*
 * exchange.go
 * Send a query and wait for its reply
 * Created 20250117
 * Last Modified 20250302
 */

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"net"
	"strings"
	"time"

	"golang.org/x/net/dns/dnsmessage"
)

// ErrTimeout is returned when a query and all of its resends go unanswered
// within the configured timeout.
var ErrTimeout = errors.New("timed out waiting for reply")

/* exchange sends a query for name with the given type and waits for the
matching reply.  The query is resent on every timeout, up to the configured
number of retries. */
func (c *Client) exchange(
	name string,
	qtype dnsmessage.Type,
) (*dnsmessage.Message, error) {
	qbuf := c.pool.Get().([]byte)
	defer c.pool.Put(qbuf)

	/* Roll the query */
	id, out, err := makeQuery(qbuf[:0], name, qtype)
	if nil != err {
		return nil, err
	}

	rbuf := c.pool.Get().([]byte)
	defer c.pool.Put(rbuf)

	/* One initial send plus one per retry */
	for try := uint(0); try <= c.conf.Retries; try++ {
		if _, err := c.c.Write(out); nil != err {
			return nil, err
		}
		if err := c.c.SetReadDeadline(
			time.Now().Add(c.conf.Timeout),
		); nil != err {
			return nil, err
		}
		m, err := c.readReply(rbuf, id)
		if nil == err {
			return m, nil
		}
		/* A missed deadline means another send; anything else is a
		real transport error */
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			continue
		}
		return nil, err
	}

	return nil, ErrTimeout
}

/* readReply reads packets from c.c until one is a reply to the query with
the given id, or until the read deadline passes. */
func (c *Client) readReply(
	rbuf []byte,
	id uint16,
) (*dnsmessage.Message, error) {
	for {
		n, err := c.c.Read(rbuf)
		if nil != err {
			return nil, err
		}

		/* Skip anything which isn't our reply */
		m := new(dnsmessage.Message)
		if err := m.Unpack(rbuf[:n]); nil != err {
			continue
		}
		if m.Header.ID != id || !m.Header.Response {
			continue
		}
		return m, nil
	}
}

/* makeQuery appends to buf a query for name with the given type and returns
the query's random ID along with the buffer holding the packed query. */
func makeQuery(
	buf []byte,
	name string,
	qtype dnsmessage.Type,
) (uint16, []byte, error) {
	/* Queries need fully-qualified names */
	if !strings.HasSuffix(name, ".") {
		name += "."
	}
	dname, err := dnsmessage.NewName(name)
	if nil != err {
		return 0, nil, err
	}

	id, err := randUint16()
	if nil != err {
		return 0, nil, err
	}

	b := dnsmessage.NewBuilder(buf, dnsmessage.Header{
		ID:               id,
		RecursionDesired: true,
	})
	b.EnableCompression()
	if err := b.StartQuestions(); nil != err {
		return 0, nil, err
	}
	if err := b.Question(dnsmessage.Question{
		Name:  dname,
		Type:  qtype,
		Class: dnsmessage.ClassINET,
	}); nil != err {
		return 0, nil, err
	}
	out, err := b.Finish()
	return id, out, err
}

/* randUint16 returns a random uint16. */
func randUint16() (uint16, error) {
	b := make([]byte, 2)
	if _, err := rand.Read(b); nil != err {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}
