// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration management for warlock CLI.
//
// Command: config
//
// Subcommands:
//
//	show              Print the effective configuration (default)
//	path              Print the config file path
//	init              Write a default config file if none exists
//	get KEY           Print one setting, e.g. api.base_url
//	set KEY VALUE     Change one setting and save
//	keys              List every setting key
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/warlock-tui/internal/config"
)

// HandleConfig runs a config subcommand. It does not need the rest of the
// application, so it works even when the API is unreachable.
func HandleConfig(cfg *config.Config, args Args, out io.Writer) error {
	switch args.Subcommand {
	case "", "show":
		if args.JSON {
			redacted := cfg.Clone()
			if redacted.API.APIKey != "" {
				redacted.API.APIKey = "[REDACTED]"
			}
			return NewJSONResponse(CmdConfig.String(), redacted).Print(out)
		}
		fmt.Fprintln(out, cfg.String())
		return nil

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		return nil

	case "init":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := config.Save(config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote default configuration to %s\n", path)
		return nil

	case "get":
		if args.ConfigKey == "" {
			return errors.New("usage: warlock config get KEY")
		}
		v, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse(CmdConfig.String(), map[string]interface{}{args.ConfigKey: v}).Print(out)
		}
		fmt.Fprintln(out, v)
		return nil

	case "set":
		if args.ConfigKey == "" {
			return errors.New("usage: warlock config set KEY VALUE")
		}
		// Edit the file as written so environment-only values such as
		// WARLOCK_API_KEY stay out of it.
		file, err := config.LoadFile()
		if err != nil {
			return err
		}
		if err := file.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return err
		}
		if err := file.Validate(); err != nil {
			return err
		}
		if err := config.Save(file); err != nil {
			return err
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return err
		}
		fmt.Fprintf(out, "Set %s\n", args.ConfigKey)
		return nil

	case "keys":
		for _, k := range config.GetAllKeys() {
			fmt.Fprintln(out, k)
		}
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q (show, path, init, get, set, keys)", args.Subcommand)
	}
}
