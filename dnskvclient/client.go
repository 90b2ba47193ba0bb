// Package dnskvclient is the client side of dnskv.  It uploads key/value
// pairs to a dnskv server by spreading them across DNS query names, and
// retrieves them back out of chunked TXT answers.
package dnskvclient

/*
 * client.go
 * Client side of dnskv
 * Created 20250117
 * Last Modified 20250302
 */

import (
	"net"
	"sync"
	"time"
)

// Config is used to configure a new Client.
type Config struct {
	// Addr is the server's UDP address, as accepted by net.Dial.
	Addr string

	// Timeout is how long to wait for the reply to a single query
	// before resending it.
	Timeout time.Duration

	// Retries is how many times a single query is resent after its
	// first send.  When a query and all of its resends go unanswered,
	// the operation fails with ErrTimeout.
	Retries uint
}

// DefaultConfig holds the defaults used for unset Config fields, or when
// nil is passed to New.
var DefaultConfig = Config{
	Addr:    "127.0.0.1:5353",
	Timeout: 2 * time.Second,
	Retries: 3,
}

// Client sends dnskv queries to a single server.  A Client's operations
// are purely sequential; it is not safe for concurrent use.
type Client struct {
	c    net.Conn
	conf Config
	pool *sync.Pool /* Packet buffers */
}

// New returns a Client which sends its queries to the server at conf.Addr.
// A nil conf is equivalent to &DefaultConfig; unset fields take their
// defaults from DefaultConfig.
func New(conf *Config) (*Client, error) {
	if nil == conf {
		conf = &DefaultConfig
	}
	c := *conf
	if "" == c.Addr {
		c.Addr = DefaultConfig.Addr
	}
	if 0 == c.Timeout {
		c.Timeout = DefaultConfig.Timeout
	}
	if 0 == c.Retries {
		c.Retries = DefaultConfig.Retries
	}

	nc, err := net.Dial("udp", c.Addr)
	if nil != err {
		return nil, err
	}

	return &Client{
		c:    nc,
		conf: c,
		pool: &sync.Pool{New: func() interface{} {
			return make([]byte, 2048)
		}},
	}, nil
}

// Close closes the Client's underlying socket.
func (c *Client) Close() error { return c.c.Close() }
