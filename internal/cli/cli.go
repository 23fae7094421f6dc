// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for warlock.
package cli

import (
	"fmt"
	"io"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdHistory
	CmdGames
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name used in JSON output.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdHistory:
		return "history"
	case CmdGames:
		return "games"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Game      string // --game, overrides game.default
	JSON      bool   // Output in JSON format
	Mock      bool   // Answer from canned responses, no network
	Ephemeral bool   // Keep history in memory only
	Verbose   bool
	Quiet     bool

	// Command-specific
	Query      string
	Subcommand string
	Target     string // game id for history subcommands
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g. --format, --output)
	Options map[string]string
}

const usageText = `warlock - board game rules assistant

Ask rules questions about your board games and get answers with
rulebook references.

Usage:
  warlock                         Start the chat TUI (default)
  warlock ask "question"          Ask a single question
  warlock chat                    Line-based interactive chat
  warlock history [list]          List games with stored history
  warlock history show GAME       Show a game's history
  warlock history export GAME     Export history (--format md|html|json, --output DIR, --open)
  warlock history clear GAME      Erase a game's history
  warlock games                   List supported games
  warlock config [show|path|init|get KEY|set KEY VALUE]
  warlock version                 Show version information

Global flags:
  -g, --game ID      Game to ask about (default from config)
  --json             Machine-readable output
  --mock             Use canned answers instead of the API
  --ephemeral        Do not persist history
  -v, --verbose      Debug logging
  -q, --quiet        Minimal output

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "warlock version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments (without the program name) and
// returns the command and args.
func Parse(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	first := remaining[0]
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	if first == "-V" {
		return CmdVersion, parsedArgs
	}

	// Command names are matched case-insensitively; a question is kept as typed.
	switch strings.ToLower(first) {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask", "a":
		parsedArgs.Query = strings.Join(parseOptions(&parsedArgs, remaining), " ")
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "history", "h":
		parseHistoryArgs(&parsedArgs, remaining)
		return CmdHistory, parsedArgs

	case "games":
		return CmdGames, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "--help", "-h":
		return CmdHelp, parsedArgs

	default:
		// Bare words are a question: warlock how does noise work
		parsedArgs.Query = strings.Join(parseOptions(&parsedArgs, append([]string{first}, remaining...)), " ")
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--json":
			parsedArgs.JSON = true
		case "--mock":
			parsedArgs.Mock = true
		case "--ephemeral":
			parsedArgs.Ephemeral = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-g", "--game":
			if i+1 < len(args) {
				i++
				parsedArgs.Game = strings.ToLower(args[i])
			}
		default:
			if strings.HasPrefix(arg, "--game=") {
				parsedArgs.Game = strings.ToLower(strings.TrimPrefix(arg, "--game="))
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

// parseOptions moves --name value and --name=value pairs into args.Options
// and returns the positional arguments. --open is a bare switch.
func parseOptions(args *Args, remaining []string) []string {
	var positional []string
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--open":
			args.Options["open"] = "true"
		case strings.HasPrefix(arg, "--") && strings.Contains(arg, "="):
			name, value, _ := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
			args.Options[name] = value
		case strings.HasPrefix(arg, "--") && i+1 < len(remaining):
			i++
			args.Options[strings.TrimPrefix(arg, "--")] = remaining[i]
		case arg == "-o" && i+1 < len(remaining):
			i++
			args.Options["output"] = remaining[i]
		case arg == "-f" && i+1 < len(remaining):
			i++
			args.Options["format"] = remaining[i]
		default:
			positional = append(positional, arg)
		}
	}
	return positional
}

// parseHistoryArgs parses history subcommand arguments.
func parseHistoryArgs(args *Args, remaining []string) {
	positional := parseOptions(args, remaining)
	args.Subcommand = "list"
	if len(positional) > 0 {
		args.Subcommand = strings.ToLower(positional[0])
	}
	if len(positional) > 1 {
		args.Target = strings.ToLower(positional[1])
	}
}

// parseConfigArgs parses config subcommand arguments.
func parseConfigArgs(args *Args, remaining []string) {
	args.Subcommand = "show"
	if len(remaining) > 0 {
		args.Subcommand = strings.ToLower(remaining[0])
	}
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = strings.Join(remaining[2:], " ")
	}
}
