package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vnykmshr/countdown/pkg/common/validation"
	"github.com/vnykmshr/countdown/pkg/notify"
	"github.com/vnykmshr/countdown/pkg/scheduling/trigger"
	"gopkg.in/yaml.v3"
)

const (
	defaultSeconds = 60
	defaultName    = "countdown"
	defaultChannel = "countdown:events"
)

// fileConfig is the YAML config file layout. Pointer fields distinguish
// "absent" from the zero value.
type fileConfig struct {
	Seconds     *int        `yaml:"seconds"`
	Name        string      `yaml:"name"`
	Lenient     *bool       `yaml:"lenient"`
	MetricsAddr string      `yaml:"metrics_addr"`
	Cron        string      `yaml:"cron"`
	Progress    *bool       `yaml:"progress"`
	Debug       *bool       `yaml:"debug"`
	Redis       redisConfig `yaml:"redis"`
}

type redisConfig struct {
	Addr     string `yaml:"addr"`
	Channel  string `yaml:"channel"`
	Encoding string `yaml:"encoding"`
}

// options is the resolved configuration of one run.
type options struct {
	Seconds      int
	Name         string
	Lenient      bool
	MetricsAddr  string
	RedisAddr    string
	RedisChannel string
	Encoding     notify.Encoding
	Cron         string
	Progress     bool
	Debug        bool
}

// flagSource is the part of *cli.Context used to read flags.
type flagSource interface {
	IsSet(name string) bool
	Int(name string) int
	String(name string) string
	Bool(name string) bool
}

func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (fileConfig, error) {
	var cfg fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// resolveOptions merges defaults, the config file and flags, in increasing
// order of precedence, and validates the result.
func resolveOptions(file fileConfig, flags flagSource) (options, error) {
	opts := options{
		Seconds:      defaultSeconds,
		Name:         defaultName,
		RedisChannel: defaultChannel,
		Progress:     true,
	}

	if file.Seconds != nil {
		opts.Seconds = *file.Seconds
	}
	if file.Name != "" {
		opts.Name = file.Name
	}
	if file.Lenient != nil {
		opts.Lenient = *file.Lenient
	}
	if file.MetricsAddr != "" {
		opts.MetricsAddr = file.MetricsAddr
	}
	if file.Cron != "" {
		opts.Cron = file.Cron
	}
	if file.Progress != nil {
		opts.Progress = *file.Progress
	}
	if file.Debug != nil {
		opts.Debug = *file.Debug
	}
	if file.Redis.Addr != "" {
		opts.RedisAddr = file.Redis.Addr
	}
	if file.Redis.Channel != "" {
		opts.RedisChannel = file.Redis.Channel
	}
	encoding := file.Redis.Encoding

	if flags.IsSet("seconds") {
		opts.Seconds = flags.Int("seconds")
	}
	if flags.IsSet("name") {
		opts.Name = flags.String("name")
	}
	if flags.IsSet("lenient") {
		opts.Lenient = flags.Bool("lenient")
	}
	if flags.IsSet("metrics-addr") {
		opts.MetricsAddr = flags.String("metrics-addr")
	}
	if flags.IsSet("redis-addr") {
		opts.RedisAddr = flags.String("redis-addr")
	}
	if flags.IsSet("redis-channel") {
		opts.RedisChannel = flags.String("redis-channel")
	}
	if flags.IsSet("encoding") {
		encoding = flags.String("encoding")
	}
	if flags.IsSet("cron") {
		opts.Cron = flags.String("cron")
	}
	if flags.IsSet("no-progress") {
		opts.Progress = !flags.Bool("no-progress")
	}
	if flags.IsSet("debug") {
		opts.Debug = flags.Bool("debug")
	}

	if _, err := validation.ValidateNonNegativeInteger("countdown", "seconds", opts.Seconds); err != nil {
		return opts, err
	}
	if err := validation.ValidateNotEmpty("countdown", "name", opts.Name); err != nil {
		return opts, err
	}
	enc, err := notify.ParseEncoding(encoding)
	if err != nil {
		return opts, err
	}
	opts.Encoding = enc
	if opts.Cron != "" {
		if err := trigger.ValidateExpression(opts.Cron); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func (o options) logLevel() slog.Level {
	if o.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
