// Program dnskv gets and sets key/value pairs on a dnskv server.
//
// Usage:
//
//	dnskv [flags] get KEY
//	dnskv [flags] set KEY VALUE
package main

/*
 * main.go
 * dnskv command-line client
 * Created 20250119
 * Last Modified 20250302
 */

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/syndrowm/dns-kv/dnskvclient"
)

func main() {
	var (
		server = pflag.StringP(
			"server",
			"s",
			dnskvclient.DefaultConfig.Addr,
			"DNS `server` to query",
		)
		timeout = pflag.Duration(
			"timeout",
			dnskvclient.DefaultConfig.Timeout,
			"Per-query reply timeout",
		)
		retries = pflag.Uint(
			"retries",
			dnskvclient.DefaultConfig.Retries,
			"Resends per query before giving up",
		)
	)
	pflag.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage: %s [flags] get KEY | set KEY VALUE\n\nFlags:\n%s",
			os.Args[0],
			pflag.CommandLine.FlagUsages(),
		)
	}
	pflag.Parse()

	log, err := zap.NewDevelopment()
	if nil != err {
		panic(err)
	}
	defer log.Sync()

	c, err := dnskvclient.New(&dnskvclient.Config{
		Addr:    *server,
		Timeout: *timeout,
		Retries: *retries,
	})
	if nil != err {
		log.Fatal("connect", zap.String("server", *server), zap.Error(err))
	}
	defer c.Close()

	args := pflag.Args()
	switch {
	case 2 == len(args) && "get" == args[0]:
		m, err := c.Get(args[1])
		if nil != err {
			log.Fatal(
				"get",
				zap.String("key", args[1]),
				zap.Error(err),
			)
		}
		fmt.Println(m.Value)
	case 3 == len(args) && "set" == args[0]:
		if err := c.Put(args[1], args[2]); nil != err {
			log.Fatal(
				"set",
				zap.String("key", args[1]),
				zap.Error(err),
			)
		}
		fmt.Printf("Set the key %q on the server\n", args[1])
	default:
		pflag.Usage()
		os.Exit(2)
	}
}
