//go:build headless

package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"
)

// runPlay is unavailable in headless builds, which leave out the window toolkit
func runPlay(ctx context.Context, cmd *cli.Command) error {
	return errors.New("built with the headless tag: use serve or mcp")
}
