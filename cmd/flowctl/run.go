package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	statemachine "github.com/ndrukelly2/state-machine"
	"github.com/ndrukelly2/state-machine/internal/logging"
	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/observability"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive a flow interactively from the terminal",
	Long: `Steps a single session against the flow definition. At each suspend
point the prompt is printed; type the event key (backend outcome for
actions, user event for views), optionally followed by key=value pairs
for a rich event. An empty line probes the current suspend point again.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringArray("set", nil, "Initial context entries, key=value (repeatable)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	verbose, _ := cmd.Flags().GetBool("verbose")
	sets, _ := cmd.Flags().GetStringArray("set")

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	opts := []statemachine.Option{statemachine.WithLogger(logger)}
	if verbose {
		opts = append(opts, statemachine.WithSink(observability.NewSlogSink(logger)))
	}

	eng, err := statemachine.New(dir, opts...)
	if err != nil {
		return fmt.Errorf("failed to load flow: %w", err)
	}

	initial := make(map[string]string, len(sets))
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set entry %q, expected key=value", kv)
		}
		initial[key] = value
	}

	ctx := context.Background()
	sess := eng.NewSession(initial, "")
	scanner := bufio.NewScanner(os.Stdin)

	var ev *domain.Event
	for {
		res, err := eng.Step(ctx, sess, ev)
		if err != nil {
			return fmt.Errorf("session aborted: %w", err)
		}
		if res.Done {
			fmt.Println("Flow finished.")
			return nil
		}

		printPrompt(res.Prompt)
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		ev = parseEvent(scanner.Text())
	}
}

func printPrompt(p *domain.Prompt) {
	switch p.Kind {
	case domain.KindAction:
		fmt.Printf("[action] %s (awaiting backend outcome)\n", p.StateID)
	case domain.KindView:
		fmt.Printf("[view] %s\n", p.Interface)
		if p.ErrorTag != "" {
			fmt.Printf("        error: %s\n", p.ErrorTag)
		}
	}
	if p.Escalation {
		fmt.Println("        (escalation: offer manual assistance)")
	}
}

// parseEvent turns "key k1=v1 k2=v2" into an event; an empty line probes.
func parseEvent(line string) *domain.Event {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	ev := &domain.Event{Type: fields[0]}
	for _, kv := range fields[1:] {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if ev.Context == nil {
			ev.Context = make(map[string]string)
		}
		ev.Context[key] = value
	}
	return ev
}
