// File: internal/cli/watch.go (complete file)

package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/baptistax/ip-insight/internal/config"
	"github.com/baptistax/ip-insight/internal/i18n"
	"github.com/baptistax/ip-insight/internal/metrics"
	"github.com/baptistax/ip-insight/internal/monitor"
	"github.com/baptistax/ip-insight/internal/report"
	"github.com/baptistax/ip-insight/internal/runctx"
)

func (a *app) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve every interval and print an event when something changes",
		Long: `Re-resolve every interval and print an event when the public IP, location,
proxy status or IPv6 support changes. Send SIGHUP or press Enter to refresh
immediately; a refresh supersedes the one still running.`,
		Args: cobra.NoArgs,
		RunE: a.runWatch,
	}
	cmd.Flags().Duration("interval", time.Minute, "Refresh interval (e.g. 30s)")
	cmd.Flags().Duration("run-timeout", 0, "Upper bound for a single resolution (0 covers every endpoint timing out)")
	_ = a.vip.BindPFlag("watch.interval", cmd.Flags().Lookup("interval"))
	_ = a.vip.BindPFlag("watch.timeout", cmd.Flags().Lookup("run-timeout"))
	return cmd
}

type watchEvent struct {
	AtUTC   time.Time      `json:"at_utc"`
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Report  *report.Report `json:"report,omitempty"`
}

func (a *app) runWatch(cmd *cobra.Command, _ []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trigger := make(chan struct{}, 1)
	poke := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				poke()
			}
		}
	})

	if a.stdin != nil {
		// Blocking reads cannot be interrupted; this goroutine ends with the process.
		go readEnter(a.stdin, poke)
	}

	out := cmd.OutOrStdout()
	opt := monitor.Options{
		Interval: a.cfg.Watch.Interval,
		Timeout:  a.cfg.RunBudget(),
		Trigger:  trigger,
		Logger:   a.logger,
	}
	// A watch that can no longer print stops with an error; the group then
	// cancels the signal loop above.
	g.Go(func() error {
		runCtx, stopRun := context.WithCancel(gctx)
		defer stopRun()

		var outErr error
		monitor.Run(runCtx, monitor.NewRefresher(res), opt, func(ev monitor.Event) {
			var rep *report.Report
			if ev.Current != nil {
				r := report.New(rc.RunID, ev.Current.AtUTC, a.lang, ev.Current.Result, ev.Current.Err)
				rep = &r
				a.export(rc, r)
			}
			a.writeMetrics(m)
			if err := a.printEvent(out, ev, rep); err != nil && outErr == nil {
				outErr = err
				stopRun()
			}
		})
		if outErr != nil {
			return failure(errors.Wrap(outErr, "write event"))
		}
		return nil
	})

	return g.Wait()
}

func readEnter(r io.Reader, poke func()) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		poke()
	}
}

func (a *app) printEvent(out io.Writer, ev monitor.Event, rep *report.Report) error {
	if a.cfg.Format == config.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(watchEvent{AtUTC: ev.AtUTC, Kind: ev.Kind, Message: ev.Message, Report: rep})
	}

	if _, err := fmt.Fprintf(out, "[%s] %s\n", ev.AtUTC.Format("2006-01-02T15:04:05Z"), ev.Message); err != nil {
		return err
	}
	switch {
	case ev.Kind == monitor.KindChanged && ev.Previous != nil && ev.Current != nil:
		printDelta(out, a.lang, *ev.Previous, *ev.Current)
	case ev.Kind == monitor.KindResolved && rep != nil:
		fmt.Fprint(out, report.RenderText(*rep, colorable(out)))
	}
	_, err := fmt.Fprintln(out)
	return err
}

func printDelta(w io.Writer, lang i18n.Language, prev, cur monitor.Snapshot) {
	pi, ci := prev.Result.Info, cur.Result.Info
	ps, cs := prev.Result.Status, cur.Result.Status

	deltaLine(w, lang.T(i18n.LabelIP), pi.IP, ci.IP)
	deltaLine(w, lang.T(i18n.LabelLocation), location(pi.City, pi.Country), location(ci.City, ci.Country))
	deltaLine(w, lang.T(i18n.LabelISP), pi.ISP, ci.ISP)
	deltaLine(w, lang.T(i18n.LabelConnectionType), ps.ConnectionType, cs.ConnectionType)
	deltaLine(w, lang.T(i18n.LabelSecurity), ps.SecurityStatus, cs.SecurityStatus)
	deltaLine(w, lang.T(i18n.LabelIPv6), supported(lang, ps.IPv6Support), supported(lang, cs.IPv6Support))
}

func deltaLine(w io.Writer, label, from, to string) {
	if from == to {
		return
	}
	fmt.Fprintf(w, "  %s: %s -> %s\n", label, printable(from), printable(to))
}

func location(city, country string) string {
	return strings.Trim(city+", "+country, ", ")
}

func supported(lang i18n.Language, v bool) string {
	if v {
		return lang.T(i18n.LabelSupported)
	}
	return lang.T(i18n.LabelNotSupported)
}

func printable(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
