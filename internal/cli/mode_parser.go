package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ModeBot    = "bot-service"
	ModeTrack  = "tracking-service"
	ModeNotify = "notification-subscriber"
)

// isKnownMode checks if the provided mode name is known.
func isKnownMode(s string) (string, bool) {
	switch s {
	case ModeBot, "bot":
		return ModeBot, true
	case ModeTrack, "tracking", "track":
		return ModeTrack, true
	case ModeNotify, "notify":
		return ModeNotify, true
	default:
		return "", false
	}
}

// ParseMode supports:
//
//	--mode=<value>
//	<value> (subcommand shorthand), e.g., `bot-service --port=3000`
func ParseMode(args []string) (string, []string, error) {
	var mode string
	var out []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--mode=") {
			mode = strings.TrimPrefix(arg, "--mode=")
			continue
		}

		if mode == "" {
			if m, ok := isKnownMode(arg); ok {
				mode = m
				continue
			}
		}
		out = append(out, arg)
	}

	if mode == "" {
		return "", out, nil
	}

	if m, ok := isKnownMode(mode); ok {
		mode = m
	}

	return mode, out, nil
}

// PrintUsage prints the usage information with examples.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, "\033[36m") // switch the color to cyan

	fmt.Fprintln(w, `Usage:
  ./whats-my-order --mode=<service> [flags]

Services (modes):
  bot-service                WhatsApp webhook server driving the order conversation
  tracking-service           HTTP API for looking up finalized orders
  notification-subscriber    RabbitMQ subscriber that announces new orders

Examples:
  ./whats-my-order --mode=bot-service --port=3000 --max-concurrent=50
  ./whats-my-order --mode=tracking-service --port=3002
  ./whats-my-order --mode=notification-subscriber`)

	fmt.Fprint(w, "\033[0m") // switch back to normal
}

func AttachUsage(fs *flag.FlagSet, mode string) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ./whats-my-order --mode=%s [flags]\n", mode)
		fs.PrintDefaults()
	}
}
