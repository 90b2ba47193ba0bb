package dnskvserver

/*
 * handle_query.go
 * Apply one received query to the store
 * Created 20250118
 * Last Modified 20250302
 */

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/dns/dnsmessage"

	dnskv "github.com/syndrowm/dns-kv"
)

var (
	// ErrMalformedName indicates an upload chunk query whose name lacks
	// the transaction id label.
	ErrMalformedName = errors.New("query name missing transaction id")

	// ErrUnsupportedType indicates a query type outside {A, AAAA, TXT}.
	ErrUnsupportedType = errors.New("unsupported query type")
)

/* Placeholder addresses acknowledge receipt of upload queries.  They carry
no information. */
var (
	placeholderA    = [4]byte{41, 41, 41, 41}
	placeholderAAAA = [16]byte{
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 41, 41, 41, 41,
	}
)

/* handle parses the datagram in p, answers each of its questions, and
sends back the reply.  Any per-query error drops the whole datagram,
unanswered. */
func (s *Server) handle(p packet) error {
	var m dnsmessage.Message
	if err := m.Unpack(p.buf); nil != err {
		return err
	}

	/* Stray responses aren't queries; ignore them quietly */
	if m.Header.Response {
		return nil
	}

	var (
		answers []dnsmessage.Resource
		rcode   = dnsmessage.RCodeSuccess
	)
	for _, q := range m.Questions {
		ans, rc, err := s.answer(q)
		if nil != err {
			return err
		}
		if dnsmessage.RCodeSuccess != rc {
			rcode = rc
		}
		if nil != ans {
			answers = append(answers, *ans)
		}
	}

	reply := dnsmessage.Message{
		Header: dnsmessage.Header{
			ID:            m.Header.ID,
			Response:      true,
			Authoritative: true,
			RCode:         rcode,
		},
		Questions: m.Questions,
		Answers:   answers,
	}
	buf, err := reply.Pack()
	if nil != err {
		return err
	}
	if _, err := s.pc.WriteTo(buf, p.addr); nil != err {
		return err
	}

	return nil
}

/* answer applies one question to the store.  It returns the answer to
send, or a nil answer with a non-success rcode for a missing key. */
func (s *Server) answer(q dnsmessage.Question) (
	*dnsmessage.Resource,
	dnsmessage.RCode,
	error,
) {
	/* DNS names are case-insensitive on the wire */
	name := strings.ToUpper(strings.TrimSuffix(q.Name.String(), "."))

	hdr := dnsmessage.ResourceHeader{
		Name:  q.Name,
		Type:  q.Type,
		Class: q.Class,
		TTL:   s.ttl,
	}

	switch q.Type {
	case dnsmessage.TypeAAAA: /* Upload chunk */
		if err := s.chunk(name); nil != err {
			return nil, 0, err
		}
		return &dnsmessage.Resource{
			Header: hdr,
			Body:   &dnsmessage.AAAAResource{AAAA: placeholderAAAA},
		}, dnsmessage.RCodeSuccess, nil
	case dnsmessage.TypeA: /* Upload commit */
		if err := s.commit(name); nil != err {
			return nil, 0, err
		}
		return &dnsmessage.Resource{
			Header: hdr,
			Body:   &dnsmessage.AResource{A: placeholderA},
		}, dnsmessage.RCodeSuccess, nil
	case dnsmessage.TypeTXT: /* Download read */
		slice, ok := s.store.Slice(name, dnskv.MaxSlice)
		if !ok {
			/* Missing keys get NXDOMAIN, never a made-up
			value */
			return nil, dnsmessage.RCodeNameError, nil
		}
		return &dnsmessage.Resource{
			Header: hdr,
			Body:   &dnsmessage.TXTResource{TXT: []string{slice}},
		}, dnsmessage.RCodeSuccess, nil
	default:
		return nil, 0, fmt.Errorf(
			"%w: %v",
			ErrUnsupportedType,
			q.Type,
		)
	}
}

/* chunk appends one upload chunk to its transaction's pending entry.  The
first label is the chunk text, the second the transaction id; anything
after is ignored. */
func (s *Server) chunk(name string) error {
	parts := strings.SplitN(name, ".", 3)
	if 2 > len(parts) {
		return ErrMalformedName
	}
	s.store.Append(parts[1], parts[0])
	return nil
}

/* commit assembles the pending upload for transaction id tx and installs
its encoded text under the key it decodes to.  Partial chunk sets are
invisible under the key until this point. */
func (s *Server) commit(tx string) error {
	text, _ := s.store.Take(tx)
	m, err := dnskv.DecodeMessage(text)
	if nil != err {
		return err
	}
	s.store.Put(strings.ToUpper(m.Key), text)
	return nil
}
