// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// init.go - The init command: write a starter config file.
package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/arena-tui/internal/config"
)

// HandleInit writes the default configuration to disk. An existing config
// file is never overwritten.
func HandleInit(args Args) error {
	path := args.ConfigPath
	atDefault := path == ""
	if atDefault {
		if err := config.EnsureConfigDir(); err != nil {
			return err
		}
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s; edit it directly", path)
	}

	cfg := config.Default()
	if atDefault {
		if err := config.Save(cfg); err != nil {
			return err
		}
	} else if err := config.SaveToPath(cfg, path); err != nil {
		return err
	}

	fmt.Printf("%s %s\n", RenderConditional(SuccessStyle, "Wrote"), path)
	fmt.Println("Add providers under [[providers]] and set API keys via")
	fmt.Println("ARENA_<PROVIDER_ID>_API_KEY environment variables.")
	return nil
}
