package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"

	"github.com/SyntropyNet/nethealth/internal/config"
	"github.com/SyntropyNet/nethealth/internal/env"
	"github.com/SyntropyNet/nethealth/pkg/multiping"
	"github.com/SyntropyNet/nethealth/pkg/multiping/pinger"
)

const fullAppName = "nethealth network latency monitor"

type app struct {
	v      *viper.Viper
	listen pinger.ListenFunc
	out    io.Writer
	errOut io.Writer
}

func newApp() *app {
	return &app{
		v:      config.New(),
		listen: pinger.ListenRaw,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   env.AppName + " [flags] host...",
		Short: fullAppName,
		Long: `Continuously sends ICMP echo requests to a list of IPv4 hosts and
draws a live latency sparkline per host. Requires raw socket privileges.`,
		Version:       config.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args)
		},
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	flags := cmd.Flags()
	flags.StringP(config.KeyConfig, "c", "", "YAML config file")
	flags.StringSlice(config.KeyHosts, nil, "hosts to probe, comma separated")
	flags.String(config.KeyBind, env.DefaultBind, "local address to bind")
	flags.DurationP(config.KeyInterval, "i", env.DefaultInterval, "probe interval")
	flags.DurationP(config.KeyTimeout, "t", env.DefaultTimeout, "reply timeout, at least one interval")
	flags.Duration(config.KeyRecvTimeout, env.DefaultRecvTimeout, "socket receive wake up period")
	flags.IntP(config.KeyCapacity, "n", env.DefaultCapacity, "history length per host")
	flags.Int(config.KeyPayloadSize, env.DefaultPayloadSize, "echo request payload size")
	flags.Duration(config.KeyRefresh, env.DefaultRefresh, "screen refresh period")
	flags.String(config.KeyLogLevel, "warning", "log level: debug, info, warning, error")
	flags.String(config.KeyLogFormat, "text", "log format: text, json")
	flags.String(config.KeyLogFile, "", "log file, stderr when empty (errors only if stderr is the screen terminal)")
	flags.Int(config.KeyLogMaxSize, 10, "log file size in MB before rotation")
	flags.Int(config.KeyLogMaxBackups, 3, "rotated log files to keep")
	flags.Uint16(config.KeyExporterPort, 0, "prometheus exporter port, 0 disables")

	bindFlags(a.v, flags)
	return cmd
}

// bindFlags makes viper prefer changed flags over env and config file
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// only fails on nil flag
		_ = v.BindPFlag(f.Name, f)
	})
}

func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.rootCmd()
	// nil makes cobra fall back to os.Args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(a.errOut, "%s: %s\n", env.AppName, err)
		if errors.Is(err, multiping.ErrSocketUnavailable) {
			fmt.Fprintln(a.errOut, "Raw ICMP socket requires root or CAP_NET_RAW.")
		}
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return env.ExitOK
	case errors.Is(err, multiping.ErrSocketUnavailable) &&
		(errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM)):
		return env.ExitPermission
	default:
		return env.ExitFailure
	}
}
