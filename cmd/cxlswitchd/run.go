package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jrlabs-io/cxlswitchd/internal/color"
	"github.com/jrlabs-io/cxlswitchd/internal/config"
	"github.com/jrlabs-io/cxlswitchd/internal/dispatch"
	"github.com/jrlabs-io/cxlswitchd/internal/fmapi"
	"github.com/jrlabs-io/cxlswitchd/internal/transport"
)

const defaultTCPPort = 2508

var (
	runConfigPath string
	runTCPPort    int
	runTCPAddress string
	runVerbosity  int
	runStepsMask  string
	runXportMask  string
	runPrintState bool
	runLogActions bool
	runVerbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the CXL switch emulator server",
	Long: `Loads a configuration file, builds the switch topology it describes,
and serves FM API and Emulator API requests over MCTP-over-TCP until
interrupted.

Example:
  cxlswitchd run --config switch.yaml --tcp-port 2508`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runConfigPath)
		if err != nil {
			return fmt.Errorf("%s", color.Failf("load %s: %v", runConfigPath, err))
		}
		sw, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("%s", color.Failf("build switch state: %v", err))
		}

		stepsMask, err := strconv.ParseUint(orZero(runStepsMask), 0, 32)
		if err != nil {
			return fmt.Errorf("run: invalid -X steps mask %q: %w", runStepsMask, err)
		}
		xportMask, err := strconv.ParseUint(orZero(runXportMask), 0, 32)
		if err != nil {
			return fmt.Errorf("run: invalid -Z transport mask %q: %w", runXportMask, err)
		}

		log := newLogger(uint32(stepsMask), uint32(xportMask))
		if runPrintState {
			printSwitchSummary(sw)
		}

		backend, err := newBackend(cfg, log)
		if err != nil {
			return fmt.Errorf("%s", color.Failf("build backend: %v", err))
		}

		addr := runTCPAddress
		if addr == "" {
			addr = cfg.Emulator.TCPAddress
		}
		port := runTCPPort
		if !cmd.Flags().Changed("tcp-port") {
			if cfg.Emulator.TCPPort != 0 {
				port = cfg.Emulator.TCPPort
			} else {
				port = defaultTCPPort
			}
		}
		listenAddr := fmt.Sprintf("%s:%d", addr, port)

		ln, err := net.Listen("tcp", listenAddr)
		if err != nil {
			return fmt.Errorf("run: listen on %s: %w", listenAddr, err)
		}
		defer ln.Close()
		fmt.Println(color.Okf("cxlswitchd listening on %s", listenAddr))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			log.Info("run: shutdown signal received, closing listener")
			ln.Close()
		}()

		d := dispatch.New(sw, backend, log)
		return acceptLoop(ctx, ln, d, log)
	},
}

// newBackend picks the emulated or passthrough ConfigBackend per
// cfg.Emulator.Mode. Passthrough mode requires at least one port to
// carry a slot/config_path mapping; a port with only one of the two
// set is rejected rather than silently falling back to emulation for
// that port.
func newBackend(cfg *config.Config, log *logrus.Entry) (fmapi.ConfigBackend, error) {
	if cfg.Emulator.Mode != "passthrough" {
		return fmapi.NewEmulatedBackend(), nil
	}

	portSlot := make(map[uint16]string)
	portConfig := make(map[uint16]string)
	for idx, p := range cfg.Ports {
		if p.Slot == "" && p.ConfigPath == "" {
			continue
		}
		if p.Slot == "" || p.ConfigPath == "" {
			return nil, fmt.Errorf("port %d: passthrough mode requires both slot and config_path", idx)
		}
		ppid := uint16(idx)
		portSlot[ppid] = p.Slot
		portConfig[ppid] = p.ConfigPath
	}
	if len(portSlot) == 0 {
		return nil, fmt.Errorf("passthrough mode requires at least one port with slot/config_path set")
	}
	log.WithField("ports", len(portSlot)).Info("run: passthrough mode, mapped real PCI devices")
	return fmapi.NewPassthroughBackend(portSlot, portConfig), nil
}

// acceptLoop accepts connections until ctx is canceled, running each
// accepted connection's dispatcher loop on its own goroutine.
func acceptLoop(ctx context.Context, ln net.Listener, d *dispatch.Dispatcher, log *logrus.Entry) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("run: accept: %w", err)
		}
		log.WithField("remote", nc.RemoteAddr()).Info("run: accepted connection")
		conn := transport.NewConn(nc, log)
		go d.Run(conn)
	}
}

// newLogger builds the package-level logger: level from -V (or debug
// for -v), structured fields for the -X/-Z bitmasks and -l switch, carried on every
// subsequent WithField call the dispatcher and handlers make.
func newLogger(stepsMask, xportMask uint32) *logrus.Entry {
	logger := logrus.New()
	switch {
	case runVerbosity >= 2:
		logger.SetLevel(logrus.TraceLevel)
	case runVerbosity == 1 || runVerbose:
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger.WithFields(logrus.Fields{
		"steps":     stepsMask,
		"commands":  runLogActions,
		"transport": xportMask,
	})
}

// orZero returns "0" for an unset numeric-string flag so strconv.ParseUint
// always has a valid literal to parse.
func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "configuration file (required)")
	runCmd.Flags().IntVarP(&runTCPPort, "tcp-port", "P", defaultTCPPort, "TCP port to bind")
	runCmd.Flags().StringVarP(&runTCPAddress, "tcp-address", "T", "", "TCP address to bind (default all interfaces)")
	runCmd.Flags().IntVarP(&runVerbosity, "verbosity", "V", 0, "verbosity level")
	runCmd.Flags().StringVarP(&runStepsMask, "steps-mask", "X", "0", "step-tracing bitfield (hex, e.g. 0x7)")
	runCmd.Flags().StringVarP(&runXportMask, "transport-mask", "Z", "0", "transport-tracing bitfield (hex)")
	runCmd.Flags().BoolVarP(&runPrintState, "state", "s", false, "print loaded switch state at startup")
	runCmd.Flags().BoolVarP(&runLogActions, "log", "l", false, "log every dispatched command/action")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "general verbose logging")
	_ = runCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(runCmd)
}
