// File: internal/cli/resolve.go (complete file)

package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/baptistax/ip-insight/internal/config"
	"github.com/baptistax/ip-insight/internal/metrics"
	"github.com/baptistax/ip-insight/internal/report"
	"github.com/baptistax/ip-insight/internal/runctx"
	"github.com/baptistax/ip-insight/internal/version"
)

func (a *app) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve once and print the result (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runResolve,
	}
}

func (a *app) runResolve(cmd *cobra.Command, _ []string) error {
	rc, err := runctx.New(a.cfg.Exports)
	if err != nil {
		return failure(err)
	}

	m := metrics.New()
	res, release, err := a.newResolver(a.cfg, m, a.logger)
	if err != nil {
		return err
	}
	defer release()

	// Allow Ctrl+C to stop the run.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, rerr := res.Resolve(ctx)
	rep := report.New(rc.RunID, rc.StartedAtUTC, a.lang, result, rerr)
	rep.Version = version.Version

	a.export(rc, rep)
	a.writeMetrics(m)

	out := cmd.OutOrStdout()
	if err := a.emit(out, rep); err != nil {
		return failure(err)
	}
	if rc.Exports() && a.cfg.Format == config.FormatText {
		fmt.Fprintf(out, "\nOutputs written to: %s\n", rc.OutputDir)
	}

	if rerr != nil {
		return &exitError{code: ExitFailure, err: rerr, silent: true}
	}
	return nil
}

func (a *app) emit(out io.Writer, rep report.Report) error {
	if a.cfg.Format == config.FormatJSON {
		return report.EncodeJSON(out, rep)
	}
	_, err := io.WriteString(out, report.RenderText(rep, colorable(out)))
	return err
}

// export writes report.json and report.txt into the run directory. Export
// failures are logged; they never fail the run.
func (a *app) export(rc *runctx.Context, rep report.Report) {
	if !rc.Exports() {
		return
	}
	if err := report.WriteJSON(rc.JSONPath(), rep); err != nil {
		a.logger.Warnf("export: %s", err)
	}
	if err := report.WriteText(rc.TextPath(), rep); err != nil {
		a.logger.Warnf("export: %s", err)
	}
}

func (a *app) writeMetrics(m *metrics.Metrics) {
	if a.cfg.MetricsFile == "" {
		return
	}
	if err := m.WriteTextfile(a.cfg.MetricsFile); err != nil {
		a.logger.Warnf("metrics: %s", err)
	}
}

func colorable(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f == os.Stdout && !color.NoColor
}
