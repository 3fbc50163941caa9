// Command hashids encodes numbers into hashids and decodes them back.
//
//	hashids -s "this is my salt" 1 2 3        # laHquq
//	hashids -d -s "this is my salt" laHquq    # 1 2 3
//	hashids -x DEADBEEF                       # wpVL4j9g
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	"hashids.local/hashids"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run 执行命令行并返回退出码。
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(args); err != nil {
		fmt.Fprintln(stderr, userMessage(err))
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, c.App.Version)
	}

	return &cli.App{
		Name:                   "hashids",
		Usage:                  "encode numbers into short obfuscated ids and back",
		UsageText:              "hashids [options] <arguments>",
		Version:                hashids.Version,
		UseShortOptionHandling: true,
		HideHelpCommand:        true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		ExitErrHandler:         func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "encode",
				Aliases: []string{"e"},
				Usage:   "set command to encode (default)",
			},
			&cli.BoolFlag{
				Name:    "decode",
				Aliases: []string{"d"},
				Usage:   "set command to decode",
			},
			&cli.StringFlag{
				Name:    "salt",
				Aliases: []string{"s"},
				Usage:   "set salt",
			},
			&cli.StringFlag{
				Name:    "alphabet",
				Aliases: []string{"a"},
				Usage:   "set alphabet",
				Value:   hashids.DefaultAlphabet,
			},
			&cli.IntFlag{
				Name:    "min-length",
				Aliases: []string{"l"},
				Usage:   "set hash minimum length",
			},
			&cli.BoolFlag{
				Name:    "hex",
				Aliases: []string{"x"},
				Usage:   "encode / decode hex strings",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML file with salt, alphabet, min_length and separators",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log diagnostics to stderr",
			},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger(stderr, c.Bool("verbose"))

			if c.NArg() == 0 {
				_ = cli.ShowAppHelp(c)
				return errors.New("no arguments")
			}

			opts, err := resolveOptions(c)
			if err != nil {
				return err
			}
			h, err := hashids.New(opts)
			if err != nil {
				return err
			}
			logger.Debug("hashids ready",
				"alphabet", h.Alphabet(),
				"separators", h.Separators(),
				"guards", h.Guards(),
				"min_length", h.MinLength(),
				"fingerprint", fmt.Sprintf("%016x", h.Fingerprint()))

			args := c.Args().Slice()
			switch {
			case c.Bool("decode") && c.Bool("hex"):
				return decodeHex(c.App.Writer, h, args)
			case c.Bool("decode"):
				return decode(c.App.Writer, h, args)
			case c.Bool("hex"):
				return encodeHex(c.App.Writer, h, args)
			default:
				return encode(c.App.Writer, h, args)
			}
		},
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}

// resolveOptions 合并配置文件和命令行参数，命令行优先。
func resolveOptions(c *cli.Context) (hashids.Options, error) {
	opts := hashids.Options{Alphabet: hashids.DefaultAlphabet}
	if path := c.String("config"); path != "" {
		fc, err := loadConfig(path)
		if err != nil {
			return opts, err
		}
		opts = fc.options()
	}

	if c.IsSet("salt") {
		opts.Salt = c.String("salt")
	}
	if c.IsSet("alphabet") {
		opts.Alphabet = c.String("alphabet")
	}
	if c.IsSet("min-length") {
		n := c.Int("min-length")
		if n < 0 {
			return opts, &invalidMinLengthError{n: n}
		}
		opts.MinLength = n
	}
	return opts, nil
}

func encode(w io.Writer, h *hashids.Hashids, args []string) error {
	numbers := make([]uint64, 0, len(args))
	for _, arg := range args {
		n, err := parseNumber(arg)
		if err != nil {
			return err
		}
		numbers = append(numbers, n)
	}
	_, err := fmt.Fprintln(w, h.Encode(numbers))
	return err
}

func encodeHex(w io.Writer, h *hashids.Hashids, args []string) error {
	for _, arg := range args {
		hash, err := h.EncodeHex(arg)
		if err != nil {
			return &invalidNumberError{arg: arg}
		}
		fmt.Fprintln(w, hash)
	}
	return nil
}

func decode(w io.Writer, h *hashids.Hashids, args []string) error {
	for _, arg := range args {
		numbers, err := h.Decode(arg)
		if err != nil {
			return &invalidHashError{arg: arg}
		}
		parts := make([]string, len(numbers))
		for i, n := range numbers {
			parts[i] = fmt.Sprint(n)
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
	return nil
}

func decodeHex(w io.Writer, h *hashids.Hashids, args []string) error {
	for _, arg := range args {
		hex, err := h.DecodeHex(arg)
		if err != nil {
			return &invalidHashError{arg: arg}
		}
		fmt.Fprintln(w, hex)
	}
	return nil
}
