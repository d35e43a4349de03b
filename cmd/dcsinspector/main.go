// DCS Inspector Core
//
// This is the property-inspector process for the DCS export-script actions.
// The device-control host launches one inspector per configured action and
// passes the connection details on the command line:
//
//	dcsinspector -port 28196 -propertyInspectorUUID 5F1A... \
//	    -registerEvent registerPropertyInspector -info '{...}' -actionInfo '{...}'
//
// The inspector connects back to the host, keeps the action's settings in
// sync, and serves the lookup, comms, help and DCS-BIOS windows over a local
// HTTP control surface.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/dcs-inspector-core/internal/api"
	"github.com/nerrad567/dcs-inspector-core/internal/host"
	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/config"
	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/logging"
	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/dcs-inspector-core/internal/inspector"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	// defaultConfigPath is read when present; a missing file means defaults.
	defaultConfigPath = "configs/config.yaml"

	// configEnv overrides the configuration path. An explicit path must exist.
	configEnv = "DCSINSPECTOR_CONFIG"

	startupCheckTimeout = 5 * time.Second
)

// hostFlags are the launch arguments the host passes with a single dash.
var hostFlags = []string{"port", "propertyInspectorUUID", "registerEvent", "info", "actionInfo"}

// options are the parsed command-line arguments.
type options struct {
	port          string
	inspectorUUID string
	registerEvent string
	info          string
	actionInfo    string
	configPath    string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(run)
	cmd.SetArgs(normalizeArgs(os.Args[1:]))
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. runFn receives the parsed options.
func newRootCmd(runFn func(ctx context.Context, opts options) error) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "dcsinspector",
		Short:         "Property inspector for DCS export-script actions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFn(cmd.Context(), opts)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.port, "port", "", "Host websocket port")
	flags.StringVar(&opts.inspectorUUID, "propertyInspectorUUID", "", "Identity token assigned by the host")
	flags.StringVar(&opts.registerEvent, "registerEvent", "", "Event name used to register with the host")
	flags.StringVar(&opts.info, "info", "", "Host and device description (JSON)")
	flags.StringVar(&opts.actionInfo, "actionInfo", "", "Action instance description (JSON)")
	flags.StringVar(&opts.configPath, "config", "", "Configuration file (default "+defaultConfigPath+")")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dcsinspector %s (commit %s, built %s)\n", version, commit, date)
		},
	})

	return root
}

// normalizeArgs rewrites the host's single-dash long flags ("-port 1234")
// into the double-dash form the flag parser expects.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
			continue
		}
		name, _, _ := strings.Cut(arg[1:], "=")
		for _, f := range hostFlags {
			if name == f {
				out[i] = "-" + arg
				break
			}
		}
	}
	return out
}

// resolveConfigPath picks the configuration file and reports whether it may
// be missing.
func resolveConfigPath(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, false
	}
	if path := os.Getenv(configEnv); path != "" {
		return path, false
	}
	return defaultConfigPath, true
}

// run is the application logic, separated from main for testability.
//
// It returns when ctx is cancelled or the host closes the connection.
func run(ctx context.Context, opts options) error {
	log := logging.Default()

	configPath, optional := resolveConfigPath(opts.configPath)
	cfg, err := config.Load(configPath, optional)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("starting DCS inspector",
		"version", version,
		"commit", commit,
		"build_date", date,
		"config", configPath,
	)

	reg, err := host.ParseRegistration(opts.port, opts.inspectorUUID, opts.registerEvent, opts.info, opts.actionInfo)
	if err != nil {
		return fmt.Errorf("parsing launch arguments: %w", err)
	}

	insp := inspector.New(cfg, reg)
	insp.SetLogger(log)
	defer func() {
		if closeErr := insp.Close(); closeErr != nil {
			log.Error("error closing inspector", "error", closeErr)
		}
	}()

	stopTelemetry, sinks := startTelemetry(cfg, reg, insp, log)
	defer stopTelemetry()

	startupChecks := make(map[string]api.HealthChecker, len(sinks)+1)
	for name, c := range sinks {
		startupChecks[name] = c
	}

	if cfg.API.Enabled {
		srv, apiErr := api.New(api.Deps{
			Config:    cfg.API,
			Logger:    log,
			Inspector: insp,
			Version:   version,
			Checks:    sinks,
		})
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if apiErr = srv.Start(ctx); apiErr != nil {
			return fmt.Errorf("starting API server: %w", apiErr)
		}
		defer func() {
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
		startupChecks["api"] = srv
	}

	if err := insp.Start(ctx); err != nil {
		return fmt.Errorf("starting inspector: %w", err)
	}

	if unhealthy := healthCheck(ctx, startupChecks, log); unhealthy > 0 {
		log.Warn("inspector running degraded", "unhealthy", unhealthy)
	}

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case <-insp.Done():
		log.Info("host closed the connection")
	}

	return nil
}

// healthCheck runs every check once and logs the failures. It returns the
// number of components that failed.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker, log *logging.Logger) int {
	ctx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
	defer cancel()

	failed := 0
	for name, c := range checks {
		if err := c.HealthCheck(ctx); err != nil {
			log.Warn("health check failed", "component", name, "error", err)
			failed++
		}
	}
	return failed
}

// startTelemetry connects the optional MQTT and InfluxDB sinks. Telemetry
// is auxiliary: a sink that cannot connect is logged and skipped. It
// returns a func closing whatever connected, and the connected sinks for
// health reporting.
func startTelemetry(cfg *config.Config, reg host.Registration, insp *inspector.Inspector, log *logging.Logger) (func(), map[string]api.HealthChecker) {
	var closers []func() error
	sinks := make(map[string]api.HealthChecker)

	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.Connect(cfg.MQTT, reg.InspectorUUID)
		if err != nil {
			log.Warn("MQTT telemetry unavailable", "error", err)
		} else {
			mqttClient.SetLogger(log)
			mqttClient.SetOnConnect(func() { log.Info("MQTT reconnected") })
			insp.AddSink(mqttClient)
			insp.Subscribe(func(event string, payload any) {
				if event != inspector.EventHostStateChanged {
					return
				}
				change, _ := payload.(map[string]any) //nolint:errcheck // zero map yields empty strings
				from, _ := change["from"].(string)     //nolint:errcheck // zero value acceptable
				to, _ := change["to"].(string)         //nolint:errcheck // zero value acceptable
				// Publishing waits for the broker; never block the emitter.
				go func() {
					if pubErr := mqttClient.PublishHostState(from, to); pubErr != nil {
						log.Debug("publishing host state failed", "error", pubErr)
					}
				}()
			})
			closers = append(closers, mqttClient.Close)
			sinks["mqtt"] = mqttClient
			log.Info("MQTT telemetry connected",
				"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
				"topic", mqttClient.Topics().All(),
			)
		}
	}

	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			log.Warn("InfluxDB telemetry unavailable", "error", err)
		} else {
			influxClient.SetOnError(func(err error) {
				log.Error("InfluxDB write error", "error", err)
			})
			insp.AddSink(influxClient)
			closers = append(closers, influxClient.Close)
			sinks["influxdb"] = influxClient
			log.Info("InfluxDB telemetry connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
		}
	}

	return func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Error("error closing telemetry sink", "error", err)
			}
		}
	}, sinks
}
