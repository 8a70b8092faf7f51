package commands

import (
	"context"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/hookvoice/internal/event"
	"github.com/roasbeef/hookvoice/internal/hooks"
	"github.com/spf13/cobra"
)

// hookFunc runs one hook against the parsed payload.
type hookFunc func(ctx context.Context, h *hooks.Handler,
	payload fn.Result[event.Payload]) hooks.Report

// newHookCommand builds a hook entry point. Hook commands accept and ignore
// anything they do not understand and never fail, since a non-zero exit or
// stray stdout would be interpreted by the host.
func newHookCommand(use, short, long string, run hookFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		Run: func(cmd *cobra.Command, _ []string) {
			runHook(cmd, run)
		},
	}

	// A malformed known flag still must not fail the hook.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintf(c.ErrOrStderr(), "hookvoice %s: %v\n", use, err)
		return nil
	})

	return cmd
}

// runHook sets up the session, reads the payload and runs the hook.
func runHook(cmd *cobra.Command, run hookFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s := startSession(ctx, cmd)
	defer s.close()

	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorS(ctx, "Hook panicked",
				fmt.Errorf("%v", r), "hook", cmd.Name())
		}
	}()

	payload := readPayload(cmd)
	s.openJournal(ctx)

	report := run(ctx, s.handler(), payload)

	s.log.DebugS(ctx, "Hook finished", "hook", report.Hook,
		"payload_ok", report.Payload.IsOk(),
		"spoke", report.Text.UnwrapOr(""))
}
