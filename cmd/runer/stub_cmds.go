package main

import "fmt"

// CliCmd and DesktopCmd are reserved subcommands spec.md §6 requires to
// exist but explicitly excludes from the engine contract. They mirror
// cmd/sand's minimal-stub command style (a Run method that prints and
// returns a non-nil error).
type CliCmd struct{}

func (c *CliCmd) Run(rctx *Context) error {
	fmt.Println("runer cli: not part of this build")
	return fmt.Errorf("cli front end not implemented")
}

type DesktopCmd struct{}

func (c *DesktopCmd) Run(rctx *Context) error {
	fmt.Println("runer desktop: not part of this build")
	return fmt.Errorf("desktop front end not implemented")
}
