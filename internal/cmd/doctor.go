package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/justingardner/pgl/pkg/events"
)

func newDoctorCmd(root *rootFlags) *cobra.Command {
	var selftest bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report tap backend availability and permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, root)
			if err != nil {
				return err
			}
			return runDoctor(cmd, app, selftest)
		},
	}

	cmd.Flags().BoolVar(&selftest, "selftest", false, "run a synthetic capture round trip")
	return cmd
}

func runDoctor(cmd *cobra.Command, app *appContext, selftest bool) error {
	env := events.DetectEnvironment()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "backend\t%s\n", env.Provider)
	fmt.Fprintf(w, "available\t%t\n", env.Available)
	fmt.Fprintf(w, "listen only\t%t\n", env.ListenOnly)
	fmt.Fprintf(w, "permission\t%s\n", env.Permission)
	if env.Message != "" {
		fmt.Fprintf(w, "note\t%s\n", env.Message)
	}
	if env.Guidance != "" {
		fmt.Fprintf(w, "guidance\t%s\n", env.Guidance)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !selftest {
		return nil
	}

	if err := runSelftest(app); err != nil {
		return fmt.Errorf("selftest: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "selftest ok")
	return nil
}

// runSelftest drives a full capture session through the synthetic backend:
// start, suppress a key, verify both verdicts and delivery, stop.
func runSelftest(app *appContext) error {
	provider := events.NewSyntheticProvider()
	listener := events.NewListener(events.Options{
		Provider: provider,
		Trusted:  func() bool { return true },
		Logger:   app.Logger,
	})

	delivered := 0
	if err := listener.Start(func(events.Event) { delivered++ }); err != nil {
		return err
	}
	defer listener.Stop()

	if err := listener.SetSuppressedKeys([]int{36}); err != nil {
		return err
	}

	session := provider.Session()
	if got := session.Inject(events.Raw{Kind: events.KindKeyDown, KeyCode: 36}); got != events.VerdictSuppress {
		return errors.New("suppressed key was not blocked")
	}
	if got := session.Inject(events.Raw{Kind: events.KindKeyDown, KeyCode: 49}); got != events.VerdictAllow {
		return errors.New("unsuppressed key was blocked")
	}
	if delivered != 2 {
		return fmt.Errorf("expected 2 deliveries, got %d", delivered)
	}
	return nil
}
