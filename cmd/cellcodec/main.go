// Command cellcodec serves the codec over gRPC and converts records
// from the command line.
//
//	cellcodec serve --config codec.toml --listen 127.0.0.1:9090 --metrics :2112
//	cellcodec decode 0x6b0000000c000000...
//	cellcodec decode --remote 127.0.0.1:9090 0x6b0000000c000000...
//	cellcodec normalize --kind uint64 0x0a
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := newApp(log).Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("cellcodec failed")
	}
}

func newApp(log zerolog.Logger) *cli.App {
	return &cli.App{
		Name:  "cellcodec",
		Usage: "Decode, encode and serve CKB transaction records",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the codec over gRPC",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "Path of a TOML config file"},
					&cli.StringFlag{Name: "listen", Value: "127.0.0.1:9090", Usage: "gRPC listen address"},
					&cli.StringFlag{Name: "metrics", Usage: "Address of the Prometheus endpoint; empty disables it"},
				},
				Action: func(c *cli.Context) error { return serve(c, log) },
			},
			{
				Name:      "decode",
				Usage:     "Decode a hex Transaction record and print it as JSON",
				ArgsUsage: "<hex>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "remote", Usage: "Address of a codec server; empty decodes in process"},
					&cli.BoolFlag{Name: "verify", Usage: "Fail unless the hash matches the canonical encoding"},
				},
				Action: decode,
			},
			{
				Name:      "normalize",
				Usage:     "Print the canonical text form of a scalar",
				ArgsUsage: "<text>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Required: true, Usage: "Scalar kind: uint32, uint64, uint128, hash20, hash32 or bytes"},
				},
				Action: normalize,
			},
		},
	}
}
