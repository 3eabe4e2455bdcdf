package main

import (
	"fmt"
	"os"

	"github.com/LerianStudio/accounts-filing-api/internal/bootstrap"
	"github.com/LerianStudio/accounts-filing-api/pkg"
)

func main() {
	pkg.InitLocalEnvConfig()

	service, err := bootstrap.InitServers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start accounts filing api: %v\n", err)
		os.Exit(1)
	}

	if err := service.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "accounts filing api stopped: %v\n", err)
		os.Exit(1)
	}
}
