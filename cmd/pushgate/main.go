package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hailer-chat/pushgate/internal/cli"
)

func main() {
	// Load .env if present; environment always wins over file values.
	_ = godotenv.Load()

	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
