package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/Vendas-api/internal/cli"
	"github.com/jhoicas/Vendas-api/pkg/config"
)

func main() {
	if err := cli.NewRootCommand(config.Load).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
