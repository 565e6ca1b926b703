// Command motion estimates, validates, plays and renders animation projects.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Nareshtt/motion-dom-canvas/examples/demo"
	"github.com/Nareshtt/motion-dom-canvas/internal/cli"
	"github.com/Nareshtt/motion-dom-canvas/internal/project"
)

func main() {
	catalog := project.NewCatalog()
	demo.Register(catalog)

	cmd := cli.NewRootCommand(catalog)
	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
