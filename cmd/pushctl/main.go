// pushctl drives a running push relay from the terminal: it reads stats,
// registers and removes subscriptions, triggers broadcasts and prints
// VAPID keypairs for the server's environment.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"webpush_demo/pkg/client"
)

type command struct {
	summary string
	run     func(ctx context.Context, env *cliEnv, args []string) error
}

type cliEnv struct {
	api    *client.Client
	stdout io.Writer
	log    *zap.Logger
}

var commands = map[string]command{
	"stats":       {"show subscription count and the server public key", runStats},
	"send":        {"broadcast a notification and wait for the results", runSend},
	"publish":     {"queue a broadcast on the relay's broker", runPublish},
	"subscribe":   {"register an endpoint as a browser would", runSubscribe},
	"unsubscribe": {"remove an endpoint", runUnsubscribe},
	"vapid":       {"generate a VAPID keypair", runVapid},
	"preview":     {"render a push payload the way the service worker shows it", runPreview},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	server := os.Getenv("PUSHCTL_SERVER")
	if server == "" {
		server = "http://localhost:3000"
	}
	var verbose bool

	flagSet := pflag.NewFlagSet("pushctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&server, "server", server, "relay base URL")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() == 0 {
		printUsage(stderr, flagSet)
		return errors.New("missing command")
	}

	name := flagSet.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}

	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		defer func() { _ = logger.Sync() }()
	}

	env := &cliEnv{api: client.New(server), stdout: stdout, log: logger}
	return cmd.run(ctx, env, flagSet.Args()[1:])
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: pushctl [--server URL] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fmt.Fprint(w, flagSet.FlagUsages())
}

// parseFlags parses a subcommand's flags, treating --help as success.
func parseFlags(flagSet *pflag.FlagSet, args []string) (bool, error) {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
