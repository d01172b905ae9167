package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "idgatectl",
	Short: "Manage the idgate identity gateway",
	Long: `idgatectl manages the idgate identity gateway server.

idgate authenticates requests for multiple tenants and resolves each
successful authentication into a normalized identity context: qualified
username, canonical user id and organization scope.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
