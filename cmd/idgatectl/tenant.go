package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quorial/idgate/pkg/db"
	directorygorm "github.com/quorial/idgate/pkg/directory/gorm"
	"github.com/quorial/idgate/pkg/model"
)

// tenantCmd represents the tenant command
var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
	Long:  `Manage the tenants served by idgate.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'tenant' requires a subcommand (create, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create <domain>",
	Short: "Register a tenant",
	Long: `Register a tenant by domain.

Example:
  idgatectl tenant create acme.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		domain := args[0]

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		tenant := &model.Tenant{Domain: domain, Active: true}
		if err := directorygorm.NewTenantDirectory(database).CreateTenant(context.Background(), tenant); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create tenant %s: %v\n", domain, err)
			os.Exit(1)
		}

		fmt.Printf("Created tenant %s (id %d)\n", tenant.Domain, tenant.ID)
	},
}

var tenantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tenants",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		tenants, err := directorygorm.NewTenantDirectory(database).ListTenants(context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to list tenants:", err)
			os.Exit(1)
		}

		fmt.Printf("%-8s %-40s %s\n", "ID", "DOMAIN", "ACTIVE")
		for _, t := range tenants {
			fmt.Printf("%-8d %-40s %v\n", t.ID, t.Domain, t.Active)
		}
	},
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(tenantCreateCmd)
	tenantCmd.AddCommand(tenantListCmd)
}
