// Program dnskvd serves the dnskv key/value protocol over UDP.
package main

/*
 * main.go
 * dnskv server daemon
 * Created 20250119
 * Last Modified 20250302
 */

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/syndrowm/dns-kv/dnskvserver"
)

func main() {
	var (
		listen = pflag.StringP(
			"listen",
			"l",
			":5353",
			"UDP `address` on which to serve",
		)
		workers = pflag.Int(
			"workers",
			dnskvserver.DefaultConfig.Workers,
			"Concurrent query handlers",
		)
		ttl = pflag.Uint32(
			"ttl",
			dnskvserver.DefaultConfig.TTL,
			"Reply TTL, in `seconds`",
		)
	)
	pflag.Parse()

	log, err := zap.NewDevelopment()
	if nil != err {
		panic(err)
	}
	defer log.Sync()

	pc, err := net.ListenPacket("udp", *listen)
	if nil != err {
		log.Fatal("listen", zap.Error(err))
	}

	s := dnskvserver.Listen(pc, &dnskvserver.Config{
		Workers: *workers,
		TTL:     *ttl,
		Logger:  log,
	})
	log.Info("listening", zap.Stringer("addr", s.Addr()))

	/* Serve until we're told to stop */
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch

	log.Info("shutting down")
	s.Close()
	s.Wait()
}
