// Command glyphpack encodes and decodes text-safe integer payloads from
// the command line.
//
// Positional field lists use the compact/direct wire formats against an
// explicit bit-width list; named records go through a TOML schema file.
//
// Usage:
//
//	glyphpack encode --widths 2,4,12 2 7 455
//	glyphpack decode --widths 2,4,12 <payload>
//	glyphpack schema-encode --schema character.toml '{"alliance":2,"race":7,"cpLevel":455}'
//	glyphpack schema-decode --schema character.toml <payload>
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/kverlio/glyphpack/payload"
	"github.com/kverlio/glyphpack/schema"
	"github.com/kverlio/glyphpack/trace"
)

func main() {
	app := cli.NewApp()
	app.Name = "glyphpack"
	app.Usage = "compact text-safe codec for bounded integer fields"
	app.Version = "1.0.0"
	app.Writer = os.Stdout
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log codec routing decisions to stderr",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "encode",
			Usage:     "Encode positional integer values against a bit-width list",
			ArgsUsage: "<value>...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "widths",
					Usage: "Comma-separated bit-widths, one per value",
				},
			},
			Action: encodeAction,
		},
		{
			Name:      "decode",
			Usage:     "Decode a payload against a bit-width list",
			ArgsUsage: "<payload>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "widths",
					Usage: "Comma-separated bit-widths, one per field",
				},
			},
			Action: decodeAction,
		},
		{
			Name:      "schema-encode",
			Usage:     "Encode a JSON record through a TOML schema",
			ArgsUsage: "<json-record>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "schema",
					Usage: "Path to the TOML schema file",
				},
			},
			Action: schemaEncodeAction,
		},
		{
			Name:      "schema-decode",
			Usage:     "Decode a payload through a TOML schema",
			ArgsUsage: "<payload>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "schema",
					Usage: "Path to the TOML schema file",
				},
			},
			Action: schemaDecodeAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newCodec builds the codec shared by all subcommands, attaching a
// zerolog observer when --verbose is set on the app.
func newCodec(c *cli.Context) (*payload.Codec, error) {
	var opts []payload.Option
	if c.GlobalBool("verbose") {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
		opts = append(opts, payload.WithObserver(trace.Zerolog(logger)))
	}

	return payload.New(opts...)
}

func parseWidths(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("--widths is required")
	}

	parts := strings.Split(s, ",")
	widths := make([]int, len(parts))
	for i, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid width %q: %w", p, err)
		}
		widths[i] = w
	}

	return widths, nil
}

func encodeAction(c *cli.Context) error {
	widths, err := parseWidths(c.String("widths"))
	if err != nil {
		return err
	}

	args := c.Args()
	if len(args) == 0 {
		return fmt.Errorf("at least one value is required")
	}

	values := make([]uint64, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", a, err)
		}
		values[i] = v
	}

	codec, err := newCodec(c)
	if err != nil {
		return err
	}

	encoded, err := codec.EncodeFields(values, widths)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, encoded)
	return nil
}

func decodeAction(c *cli.Context) error {
	widths, err := parseWidths(c.String("widths"))
	if err != nil {
		return err
	}

	if c.NArg() != 1 {
		return fmt.Errorf("exactly one payload argument is required")
	}

	codec, err := newCodec(c)
	if err != nil {
		return err
	}

	values, err := codec.DecodeFields(c.Args().First(), widths)
	if err != nil {
		return err
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatUint(v, 10)
	}

	fmt.Fprintln(c.App.Writer, strings.Join(parts, ","))
	return nil
}

func loadSchema(c *cli.Context) (*schema.Schema, error) {
	path := c.String("schema")
	if path == "" {
		return nil, fmt.Errorf("--schema is required")
	}

	descriptors, err := schema.LoadTOML(path)
	if err != nil {
		return nil, err
	}

	codec, err := newCodec(c)
	if err != nil {
		return nil, err
	}

	return schema.New(descriptors, schema.WithCodec(codec))
}

func schemaEncodeAction(c *cli.Context) error {
	s, err := loadSchema(c)
	if err != nil {
		return err
	}

	if c.NArg() != 1 {
		return fmt.Errorf("exactly one JSON record argument is required")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(c.Args().First()), &raw); err != nil {
		return fmt.Errorf("invalid JSON record: %w", err)
	}

	rec, err := toRecord(raw)
	if err != nil {
		return err
	}

	encoded, err := s.Encode(rec)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, encoded)
	return nil
}

func schemaDecodeAction(c *cli.Context) error {
	s, err := loadSchema(c)
	if err != nil {
		return err
	}

	if c.NArg() != 1 {
		return fmt.Errorf("exactly one payload argument is required")
	}

	rec, err := s.Decode(c.Args().First())
	if err != nil {
		return err
	}

	out, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

// toRecord converts a decoded JSON object into a schema record,
// normalizing numbers to uint64 and nested arrays of objects to
// []schema.Record.
func toRecord(raw map[string]any) (schema.Record, error) {
	rec := make(schema.Record, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case float64:
			if val < 0 || val != float64(uint64(val)) {
				return nil, fmt.Errorf("field %q: value %v is not a non-negative integer", name, val)
			}
			rec[name] = uint64(val)
		case []any:
			subs := make([]schema.Record, 0, len(val))
			for i, item := range val {
				obj, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("field %q[%d]: expected an object", name, i)
				}
				sub, err := toRecord(obj)
				if err != nil {
					return nil, err
				}
				subs = append(subs, sub)
			}
			rec[name] = subs
		default:
			return nil, fmt.Errorf("field %q: unsupported JSON value type %T", name, v)
		}
	}

	return rec, nil
}
