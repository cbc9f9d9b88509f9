package herald

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/herald/pkg/config"
	"github.com/arthur-debert/herald/pkg/errors"
	"github.com/arthur-debert/herald/pkg/logging"
	"github.com/arthur-debert/herald/pkg/registry"
	"github.com/arthur-debert/herald/pkg/scenario"
	"github.com/arthur-debert/herald/pkg/style"
	"github.com/arthur-debert/herald/pkg/tracing"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "demo",
		Short:   MsgDemoShort,
		Long:    MsgDemoLong,
		Example: MsgDemoExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioPath, _ := cmd.Flags().GetString("scenario")
			withTrace, _ := cmd.Flags().GetBool("trace")
			formatName, _ := cmd.Flags().GetString("format")

			format, err := style.ParseFormat(formatName)
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "invalid --format value")
			}

			return runDemo(cmd.Context(), demoOptions{
				ScenarioPath: scenarioPath,
				Trace:        withTrace,
				Format:       format,
				Out:          cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringP("scenario", "s", "", MsgFlagScenario)
	cmd.Flags().Bool("trace", false, MsgFlagTrace)
	cmd.Flags().StringP("format", "f", "auto", MsgFlagFormat)

	return cmd
}

type demoOptions struct {
	ScenarioPath string
	Trace        bool
	Format       style.Format
	Out          io.Writer
}

// deliveryFeed collects the deliveries of the pass currently dispatching.
// Handlers run serially on the dispatching goroutine, so no locking is
// needed.
type deliveryFeed struct {
	current []style.Delivery
}

func (f *deliveryFeed) add(d style.Delivery) {
	f.current = append(f.current, d)
}

// take returns the collected deliveries and starts a fresh pass.
func (f *deliveryFeed) take() []style.Delivery {
	out := f.current
	f.current = nil
	return out
}

func runDemo(ctx context.Context, opts demoOptions) error {
	logger := logging.GetLogger("cmd.demo")

	// Flags override the file and environment layers
	overrides := make(map[string]interface{})
	if opts.ScenarioPath != "" {
		overrides["demo.scenario"] = opts.ScenarioPath
	}
	if opts.Trace {
		overrides["tracing.enabled"] = true
	}

	cfg, err := config.LoadWithOverrides(overrides)
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}

	sc, err := loadScenario(cfg.Demo.Scenario)
	if err != nil {
		return fmt.Errorf(MsgErrLoadScenario, err)
	}

	logger.Info().
		Str("scenario", sc.Name).
		Int("events", len(sc.Events)).
		Msg("Scenario loaded")

	// The file exporter needs a destination; default to the state
	// directory next to the log file.
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == "file" && cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = filepath.Join(xdg.StateHome, "herald", "traces.jsonl")
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf(MsgErrSetupTracing, err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Trace provider shutdown failed")
		}
	}()

	reg := registry.NewWithOptions(registry.Options{Tracer: provider.Tracer()})
	defer reg.Close()

	// Stream registry changes into the log and count lazy materializations
	// for the summary.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	changes := reg.Watch(watchCtx)

	var materialized int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for c := range changes {
			logger.Debug().
				Str("kind", string(c.Kind)).
				Str("type", c.Type).
				Str("event", string(c.Event)).
				Msg("Registry change")
			if c.Kind == registry.ChangeResolved {
				materialized++
			}
		}
	}()

	feed := &deliveryFeed{}
	if err := registerDemoServices(reg, cfg, sc, feed); err != nil {
		return err
	}

	renderer := style.NewRenderer(opts.Format)
	summary := style.Summary{Scenario: sc.Name}
	start := time.Now()

	var firstErr error
	for i, evt := range sc.Events {
		passStart := time.Now()
		err := reg.Dispatch(ctx, evt)

		pass := style.PassReport{
			Event:      evt,
			Deliveries: feed.take(),
			Err:        err,
			Elapsed:    time.Since(passStart),
		}
		summary.Events++
		summary.Deliveries += len(pass.Deliveries)
		if err != nil {
			summary.Failures++
			if firstErr == nil {
				firstErr = err
			}
		}

		fmt.Fprintln(opts.Out, renderer.RenderPass(pass))
		fmt.Fprintln(opts.Out)

		if sc.Pause.Duration > 0 && i < len(sc.Events)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sc.Pause.Duration):
			}
		}
	}

	// Stop the watcher before reading the materialization count; Wait
	// orders the goroutine's writes before our read.
	stopWatch()
	wg.Wait()
	summary.Materialized = materialized
	summary.Elapsed = time.Since(start)

	fmt.Fprintln(opts.Out, renderer.RenderRoster(reg.Snapshot()))
	fmt.Fprintln(opts.Out)
	fmt.Fprintln(opts.Out, renderer.RenderSummary(summary))

	return firstErr
}

// loadScenario picks the configured scenario file, or the built-in
// lifecycle scenario when none is set.
func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Default(), nil
	}
	return scenario.Load(path)
}
