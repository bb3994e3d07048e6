package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pedde-lisp/r5scheme/internal/bootstrap"
	"github.com/pedde-lisp/r5scheme/internal/config"
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/snapshot"
)

// NewRootCommand builds the r5scheme root command: `-f FILE`, `-h`,
// `--debug`, `--watch`, `--snapshot`. Grounded on cli/main.go's cobra root
// command shape (PersistentFlags + a single RunE), trimmed to this
// engine's surface.
func NewRootCommand() *cobra.Command {
	var (
		file         string
		debug        bool
		watch        bool
		snapshotPath string
		rcPath       string
	)

	cmd := &cobra.Command{
		Use:           "r5scheme",
		Short:         "An R5RS-family Scheme REPL and script runner",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, file, debug, watch, snapshotPath, rcPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&file, "file", "f", "", "load and execute a Scheme source file")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	cmd.PersistentFlags().BoolVar(&watch, "watch", false, "with -f, reload the file whenever it changes on disk")
	cmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "write the final environment's bindings to this CBOR file on exit")
	cmd.PersistentFlags().StringVar(&rcPath, "rc", "lisprc.json", "path to the configuration file")

	return cmd
}

func run(cmd *cobra.Command, file string, debug, watch bool, snapshotPath, rcPath string) error {
	cfg, err := config.Load(rcPath)
	if err != nil {
		return err
	}

	e, err := bootstrap.New()
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	ctx := exec.New(e)
	ctx.SetDebug(debug || cfg.Debug)

	if file != "" {
		src, rerr := os.ReadFile(file)
		if rerr != nil {
			return rerr
		}
		if ferr := RunFile(ctx, string(src), file); ferr != nil {
			ctx.EmitOnError(ctx, ferr)
		}

		if watch {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			stop := make(chan struct{})
			go func() {
				<-sigCh
				close(stop)
			}()
			if werr := Watch(ctx, file, cmd.OutOrStdout(), stop); werr != nil {
				return werr
			}
		}
	} else {
		repl := NewREPL(ctx)
		repl.Interactive = IsTerminal(os.Stdin)
		repl.Run(os.Stdin, cmd.OutOrStdout())
	}

	if snapshotPath != "" {
		if serr := snapshot.WriteFile(snapshotPath, ctx.Env); serr != nil {
			return fmt.Errorf("snapshot: %w", serr)
		}
	}
	return nil
}
