package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kolkov/handoff/handoff"
	"github.com/kolkov/handoff/internal/config"
	"github.com/kolkov/handoff/internal/console"
	"github.com/kolkov/handoff/internal/logging"
)

// rootFlags holds command-line overrides for the config file.
type rootFlags struct {
	config       string
	wait         string
	pollInterval uint64
	audit        bool
	logLevel     string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "handoff",
		Short: "Two-goroutine producer/consumer handshake over one shared record",
		Long: `handoff reads a string, an int and a double, stores them in a shared
record and starts two goroutines running the same routine. The first one
started becomes the producer and overwrites the record; the second becomes
the consumer and prints the record once the producer has published it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&f.config, "config", "", "config file (default "+config.DefaultConfigPath()+")")
	cmd.Flags().StringVar(&f.wait, "wait", "", "wait mode: spin or signal")
	cmd.Flags().Uint64Var(&f.pollInterval, "poll-interval", 0, "print a waiting line every N polls")
	cmd.Flags().BoolVar(&f.audit, "audit", false, "check happens-before ordering of record accesses")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(newConfigCmd(f))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command, f *rootFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(f.config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("wait") {
		cfg.Wait = f.wait
	}
	if flags.Changed("poll-interval") {
		cfg.Diagnostics.PollInterval = f.pollInterval
	}
	if flags.Changed("audit") {
		cfg.Audit = f.audit
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run performs one interactive handshake.
func run(in io.Reader, out, errOut io.Writer, cfg *config.Config) error {
	logger, err := logging.New(cfg.Log, errOut)
	if err != nil {
		return err
	}

	prompter := console.NewPrompter(in, out)
	input, err := console.ReadInput(prompter)
	prompter.Close()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	printer := console.NewPrinter(out, cfg.Diagnostics.PollInterval)
	printer.Echo(input)

	res, err := handoff.Run(input, handoff.Options{
		Wait:     cfg.WaitMode(),
		Update:   cfg.Producer.Payload(),
		Audit:    cfg.Audit,
		Observer: printer,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if cfg.Audit {
		printer.Races(res.Races)
	}
	return nil
}
