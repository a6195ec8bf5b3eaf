package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/SyntropyNet/nethealth/internal/env"
	"github.com/SyntropyNet/nethealth/internal/logger"
)

// Configuration keys. Flags use the same names.
const (
	KeyConfig        = "config"
	KeyHosts         = "hosts"
	KeyBind          = "bind"
	KeyInterval      = "interval"
	KeyTimeout       = "timeout"
	KeyRecvTimeout   = "recv-timeout"
	KeyCapacity      = "capacity"
	KeyPayloadSize   = "payload-size"
	KeyRefresh       = "refresh"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyLogFile       = "log.file"
	KeyLogMaxSize    = "log.max-size"
	KeyLogMaxBackups = "log.max-backups"
	KeyExporterPort  = "exporter.port"
)

const (
	minInterval    = 10 * time.Millisecond
	maxInterval    = time.Minute
	minCapacity    = 1
	maxCapacity    = 1000
	minRecvTimeout = 10 * time.Millisecond
	maxRecvTimeout = time.Second
	maxPort        = 65535
)

var (
	ErrNoHosts     = errors.New("no hosts configured")
	ErrInvalidAddr = errors.New("invalid IPv4 address")
)

type Config struct {
	Hosts       []netip.Addr
	Bind        netip.Addr
	Interval    time.Duration
	Timeout     time.Duration
	RecvTimeout time.Duration
	Capacity    int
	PayloadSize int
	Refresh     time.Duration
	Log         LogConfig
	// 0 disables metrics exporter
	ExporterPort uint16
}

type LogConfig struct {
	Level      int
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
}

// New creates a viper instance with defaults and environment lookup
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(env.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyBind, env.DefaultBind)
	v.SetDefault(KeyInterval, env.DefaultInterval)
	v.SetDefault(KeyTimeout, env.DefaultTimeout)
	v.SetDefault(KeyRecvTimeout, env.DefaultRecvTimeout)
	v.SetDefault(KeyCapacity, env.DefaultCapacity)
	v.SetDefault(KeyPayloadSize, env.DefaultPayloadSize)
	v.SetDefault(KeyRefresh, env.DefaultRefresh)
	v.SetDefault(KeyLogLevel, "warning")
	v.SetDefault(KeyLogFormat, logger.FormatText)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSize, 10)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyExporterPort, 0)
}

// Load reads optional config file and builds validated configuration.
// Positional args are extra hosts. Out of range values are clamped.
func Load(v *viper.Viper, args []string) (*Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	hosts, err := parseHosts(append(v.GetStringSlice(KeyHosts), args...))
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, ErrNoHosts
	}

	bind, err := parseAddr(v.GetString(KeyBind))
	if err != nil {
		return nil, fmt.Errorf("bind: %w", err)
	}

	cfg := &Config{
		Hosts:       hosts,
		Bind:        bind,
		Interval:    clamp(v.GetDuration(KeyInterval), minInterval, maxInterval),
		RecvTimeout: clamp(v.GetDuration(KeyRecvTimeout), minRecvTimeout, maxRecvTimeout),
		Capacity:    clamp(v.GetInt(KeyCapacity), minCapacity, maxCapacity),
		PayloadSize: clamp(v.GetInt(KeyPayloadSize), 0, env.MaxPayloadSize),
		Refresh:     v.GetDuration(KeyRefresh),
		Log: LogConfig{
			Level:      logger.ParseLevel(v.GetString(KeyLogLevel)),
			Format:     strings.ToLower(v.GetString(KeyLogFormat)),
			File:       v.GetString(KeyLogFile),
			MaxSize:    max(v.GetInt(KeyLogMaxSize), 1),
			MaxBackups: max(v.GetInt(KeyLogMaxBackups), 0),
		},
	}

	// a probe cannot time out before next one is sent
	cfg.Timeout = max(v.GetDuration(KeyTimeout), cfg.Interval)
	if cfg.Refresh <= 0 {
		cfg.Refresh = env.DefaultRefresh
	}
	if port := v.GetInt(KeyExporterPort); port > 0 && port <= maxPort {
		cfg.ExporterPort = uint16(port)
	}

	return cfg, nil
}

// parseHosts accepts list items as well as comma or space separated values.
// No name resolution is done, duplicates are kept in first seen order once.
func parseHosts(values []string) ([]netip.Addr, error) {
	var hosts []netip.Addr
	seen := make(map[netip.Addr]bool)

	for _, value := range values {
		for _, item := range strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			addr, err := parseAddr(item)
			if err != nil {
				return nil, err
			}
			if !seen[addr] {
				seen[addr] = true
				hosts = append(hosts, addr)
			}
		}
	}
	return hosts, nil
}

func parseAddr(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidAddr, s)
	}
	return addr, nil
}

func clamp[T int | time.Duration](val, lo, hi T) T {
	if val < lo {
		return lo
	} else if val > hi {
		return hi
	}
	return val
}
