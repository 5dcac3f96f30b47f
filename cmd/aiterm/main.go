package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/snipkit/ai-terminal-verse-06/internal/config"
	"github.com/snipkit/ai-terminal-verse-06/internal/engine"
	"github.com/snipkit/ai-terminal-verse-06/internal/logging"
	"github.com/snipkit/ai-terminal-verse-06/internal/tui"
	"github.com/snipkit/ai-terminal-verse-06/internal/workflow"
)

const version = "1.0.0"

func buildSession(cfg config.Config, logOut io.Writer) (*engine.Session, *zap.Logger) {
	logger := logging.New(cfg.Log, logOut)
	return engine.NewSession(engine.Options{
		Logger:                logger,
		Model:                 cfg.Model,
		AgentMode:             cfg.AgentMode,
		EnabledPlugins:        cfg.EnabledPlugins,
		Denylist:              cfg.Denylist,
		ResponseDelay:         time.Duration(cfg.ResponseDelayMs) * time.Millisecond,
		StepDelay:             time.Duration(cfg.StepDelayMs) * time.Millisecond,
		CorrectionDelay:       time.Duration(cfg.CorrectionDelayMs) * time.Millisecond,
		CorrectionSuccessRate: cfg.CorrectionSuccessRate,
	}), logger
}

func main() {
	root := &cobra.Command{
		Use:     "aiterm",
		Short:   "AI Terminal - natural language shell assistant",
		Long:    "aiterm is an interactive terminal that turns natural language into shell commands, with plugin-aware synthesis, confirmation gating for dangerous commands, and step-by-step agent runs.\n\nUse without arguments for the TUI, or 'ask' for a one-shot question.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return err
			}
			if agentFlag {
				cfg.AgentMode = true
			}
			if modelFlag != "" {
				cfg.Model = modelFlag
			}

			// The TUI owns the terminal; console logging would tear it
			// up, so only the file sink stays active.
			session, logger := buildSession(cfg, io.Discard)
			defer func() { _ = logger.Sync() }()

			lib, err := workflow.LoadDir(cfg.WorkflowDir)
			if err != nil {
				return err
			}

			p := tea.NewProgram(tui.NewModel(session, lib), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	root.Flags().BoolVarP(&agentFlag, "agent", "a", false, "Start in agent mode")
	root.Flags().StringVarP(&modelFlag, "model", "m", "", "Model id to respond as")

	askCmd := &cobra.Command{
		Use:   "ask [text]",
		Short: "One-shot question without the TUI",
		Long:  "Submit a single input, wait for the response, and print the transcript.\n\nExamples:\n  - aiterm ask \"show me running containers\"\n  - aiterm ask --agent \"deploy the app\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return err
			}
			if agentFlag {
				cfg.AgentMode = true
			}
			if modelFlag != "" {
				cfg.Model = modelFlag
			}

			session, logger := buildSession(cfg, os.Stderr)
			defer func() { _ = logger.Sync() }()

			input := strings.Join(args, " ")
			session.Submit(input)

			// The response lands on a real timer; wait it out.
			deadline := time.Now().Add(time.Duration(cfg.ResponseDelayMs)*time.Millisecond + 2*time.Second)
			for time.Now().Before(deadline) {
				msgs := session.Messages()
				if n := len(msgs); n > 0 && msgs[n-1].Kind != engine.MessageInput {
					break
				}
				time.Sleep(50 * time.Millisecond)
			}

			for _, msg := range session.Messages() {
				fmt.Printf("[%s] %s\n", msg.Kind, msg.Content)
			}
			for _, b := range session.Blocks() {
				fmt.Printf("\ncommand: %s\nstatus: %s\n", b.GeneratedCommand, b.Status)
				for _, w := range b.Warnings {
					fmt.Printf("warning: %s\n", w)
				}
			}
			return nil
		},
	}
	askCmd.Flags().BoolVarP(&agentFlag, "agent", "a", false, "Answer in agent mode")
	askCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model id to respond as")
	root.AddCommand(askCmd)

	workflowsCmd := &cobra.Command{
		Use:   "workflows [query]",
		Short: "List or search the workflow library",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return err
			}
			lib, err := workflow.LoadDir(cfg.WorkflowDir)
			if err != nil {
				return err
			}

			results := lib.All()
			if len(args) > 0 {
				results = lib.Search(args[0])
			}
			if len(results) == 0 {
				fmt.Println("no workflows found")
				return nil
			}
			for _, w := range results {
				fmt.Printf("%-20s [%s] %s (%d steps)\n", w.ID, w.Category, w.Name, len(w.Steps))
			}
			return nil
		},
	}
	root.AddCommand(workflowsCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration path and defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			cfg, err := config.LoadConfig(path)
			if err != nil {
				return err
			}
			fmt.Printf("config: %s\n", path)
			fmt.Printf("model: %s\n", cfg.Model)
			fmt.Printf("agent_mode: %v\n", cfg.AgentMode)
			fmt.Printf("denylist: %s\n", strings.Join(cfg.Denylist, ", "))
			return nil
		},
	}
	root.AddCommand(configCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	agentFlag bool
	modelFlag string
)
