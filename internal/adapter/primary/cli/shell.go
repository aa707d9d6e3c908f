package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"client-manager/internal/logging"
)

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell that runs subcommands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(cmd.OutOrStdout(), prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "clients> ", "shell prompt")
	return cmd
}

func runInteractiveShell(out io.Writer, prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "client-manager-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	base := sessionArgs()
	sessionVerbosity := verbosity
	fmt.Fprintln(out, "Interactive shell. Type 'help' for examples, 'exit' to leave.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(out)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "help":
			printShellHelp(out)
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(out, "Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(out, tokens[1:], &sessionVerbosity); err != nil {
				fmt.Fprintf(out, "log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Fprintln(out, "Already inside the shell. Enter another command or 'exit'.")
			continue
		}

		args := append([]string{}, base...)
		if sessionVerbosity > 0 {
			args = append(args, fmt.Sprintf("--verbose=%d", sessionVerbosity))
		}
		if err := executeArgs(out, append(args, tokens...)); err != nil {
			fmt.Fprintf(out, "command error: %v\n", err)
		}
	}
}

// sessionArgs carries the store selection of the shell into every command it runs.
func sessionArgs() []string {
	return []string{
		"--state=" + settings.StatePath,
		"--store=" + settings.Store,
		"--driver=" + settings.DBDriver,
		"--dsn=" + settings.DBDSN,
		fmt.Sprintf("--autosave=%t", settings.Autosave),
	}
}

func executeArgs(out io.Writer, args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetOut(out)
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(out io.Writer, args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level name (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Examples:
  list                          # show devices and the draft
  new                           # start a draft
  draft set --name kitchen      # edit the draft
  draft set --min 200 --max 900
  finish                        # commit the draft
  cancel                        # discard the draft
  range 0 --min 100 --max 4000  # change a device's range
  remove 0                      # remove a device
  state get --format yaml       # print the stored document
  web --addr 0.0.0.0:7070       # serve the web UI
  log -vv                       # more verbose logging
  log --show                    # show the current level
  exit / quit                   # leave the shell`)
}
