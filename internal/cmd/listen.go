package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/justingardner/pgl/pkg/capture"
	"github.com/justingardner/pgl/pkg/events"
)

type listenFlags struct {
	suppressKeys  []int
	suppressChars string
	duration      time.Duration
	synthetic     bool
	noFailsafe    bool
}

func newListenCmd(root *rootFlags) *cobra.Command {
	flags := &listenFlags{}

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Capture input events and stream them as JSON lines",
		Long: `Installs the event tap and writes one JSON object per intercepted event
to stdout. Keys named by --suppress-keys or --suppress-chars are dropped
before they reach other applications. Press ESC once to release the
suppressed keys, twice quickly to stop.

The session is controlled over stdin: "pause" holds the stream, "resume"
continues it, "quit" ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, root)
			if err != nil {
				return err
			}
			return runListen(cmd, app, flags)
		},
	}

	fs := cmd.Flags()
	fs.IntSliceVar(&flags.suppressKeys, "suppress-keys", nil, "key codes to suppress")
	fs.StringVar(&flags.suppressChars, "suppress-chars", "", "characters whose keys are suppressed (ANSI US layout)")
	fs.DurationVar(&flags.duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	fs.BoolVar(&flags.synthetic, "synthetic", false, "use the in-memory backend with a scripted event stream")
	fs.BoolVar(&flags.noFailsafe, "no-failsafe", false, "disable the ESC escape hatch")

	return cmd
}

func runListen(cmd *cobra.Command, app *appContext, flags *listenFlags) error {
	opts := events.Options{Logger: app.Logger}
	var synthetic *events.SyntheticProvider
	if flags.synthetic {
		synthetic = events.NewSyntheticProvider()
		opts.Provider = synthetic
		opts.Trusted = func() bool { return true }
	}
	listener := events.NewListener(opts)

	suppressKeys := flags.suppressKeys
	if suppressKeys == nil {
		suppressKeys = app.Config.Listener.SuppressKeys
	}
	suppressChars := flags.suppressChars
	if suppressChars == "" {
		suppressChars = app.Config.Listener.SuppressChars
	}
	if suppressChars != "" {
		if err := listener.SetSuppressedString(suppressChars); err != nil {
			return err
		}
	} else if len(suppressKeys) > 0 {
		if err := listener.SetSuppressedKeys(suppressKeys); err != nil {
			return err
		}
	}

	ctrl := capture.NewController()
	enc := json.NewEncoder(cmd.OutOrStdout())
	cb := ctrl.Gate(func(ev events.Event) {
		if err := enc.Encode(ev); err != nil {
			app.Logger.Error().Err(err).Msg("event stream write failed")
		}
	})

	failsafeEnabled := app.Config.Listener.Failsafe.Enabled && !flags.noFailsafe
	if failsafeEnabled {
		fs := capture.NewFailsafe(
			func() { _ = listener.SetSuppressedKeys(nil) },
			func() { ctrl.Kill(nil) },
			capture.FailsafeOptions{
				Window: time.Duration(app.Config.Listener.Failsafe.WindowMS) * time.Millisecond,
				Logger: app.Logger,
			},
		)
		cb = fs.Wrap(cb)
	}

	if err := listener.Start(cb); err != nil {
		return err
	}
	defer listener.Stop()

	app.Logger.Info().
		Ints("suppressed_keys", listener.SuppressedKeys()).
		Bool("failsafe", failsafeEnabled).
		Bool("synthetic", flags.synthetic).
		Msg("listening for events")

	go controlLoop(cmd.InOrStdin(), ctrl, app.Logger)

	if synthetic != nil {
		go playScript(synthetic.Session(), ctrl)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var expired <-chan time.Time
	if flags.duration > 0 {
		timer := time.NewTimer(flags.duration)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-ctx.Done():
		app.Logger.Info().Msg("interrupted, stopping")
	case <-ctrl.Done():
		app.Logger.Info().Msg("session ended")
	case <-expired:
		app.Logger.Info().Dur("duration", flags.duration).Msg("duration elapsed, stopping")
	}
	return nil
}

// controlLoop reads session commands from stdin until the stream ends or
// the session is quit.
func controlLoop(r io.Reader, ctrl *capture.Controller, logger zerolog.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "":
		case "pause":
			ctrl.Pause()
			logger.Info().Msg("capture paused")
		case "resume":
			ctrl.Resume()
			logger.Info().Msg("capture resumed")
		case "quit", "stop":
			ctrl.Kill(nil)
			return
		default:
			logger.Warn().Str("command", scanner.Text()).Msg("unknown control command")
		}
	}
}

// playScript feeds a short demonstration timeline through a synthetic
// session, then ends the run. The script holds while the session is
// paused.
func playScript(session *events.SyntheticSession, ctrl *capture.Controller) {
	if session == nil {
		return
	}

	base := uint64(time.Now().UnixNano())
	script := []events.Raw{
		{Kind: events.KindKeyDown, KeyCode: 35},
		{Kind: events.KindKeyUp, KeyCode: 35},
		{Kind: events.KindKeyDown, KeyCode: 5},
		{Kind: events.KindKeyUp, KeyCode: 5},
		{Kind: events.KindKeyDown, KeyCode: 37},
		{Kind: events.KindKeyUp, KeyCode: 37},
		{Kind: events.KindMouseMoved, X: 320, Y: 240},
		{Kind: events.KindLeftMouseDown, Button: 0, ClickState: 1, X: 320, Y: 240},
		{Kind: events.KindLeftMouseUp, Button: 0, ClickState: 1, X: 320, Y: 240},
	}
	for i, raw := range script {
		if err := ctrl.Wait(context.Background()); err != nil {
			return
		}
		raw.TimestampNS = base + uint64(i)*50_000_000
		session.Inject(raw)
		time.Sleep(50 * time.Millisecond)
	}
	ctrl.Kill(nil)
}
