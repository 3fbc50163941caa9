package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"hashids.local/hashids"
)

// fileConfig --config 指向的 TOML 文件：
//
//	salt       = "this is my salt"
//	alphabet   = "abcdefghijklmnopqrstuvwxyz1234567890"
//	min_length = 8
type fileConfig struct {
	Salt       string `toml:"salt"`
	Alphabet   string `toml:"alphabet"`
	MinLength  int    `toml:"min_length"`
	Separators string `toml:"separators"`
}

func loadConfig(path string) (*fileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg fileConfig
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MinLength < 0 {
		return nil, fmt.Errorf("config %s: min_length must not be negative", path)
	}
	return &cfg, nil
}

func (fc *fileConfig) options() hashids.Options {
	return hashids.Options{
		Salt:       fc.Salt,
		Alphabet:   fc.Alphabet,
		MinLength:  fc.MinLength,
		Separators: fc.Separators,
	}
}
