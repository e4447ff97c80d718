package main

import (
	"fmt"
	"os"

	// Import all Kubernetes client auth plugins
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"github.com/Hostzero-GmbH/keycloak-config/cmd/command"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" || os.Args[1] == "help" {
		command.Usage(os.Stderr)
		if len(os.Args) < 2 {
			os.Exit(1)
		}
		return
	}

	if os.Args[1] == "version" {
		fmt.Println(version)
		return
	}

	command.Run(os.Args[1], os.Args[2:])
}

// version is set at build time
var version = "dev"
