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

// organizationCmd represents the organization command
var organizationCmd = &cobra.Command{
	Use:     "organization",
	Aliases: []string{"org"},
	Short:   "Manage organizations",
	Long:    `Manage the organizations owned by tenants.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'organization' requires a subcommand (create, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var organizationCreateCmd = &cobra.Command{
	Use:   "create <org-id> <tenant-domain>",
	Short: "Register an organization under a tenant",
	Long: `Register an organization under the tenant owning its user directory.

Example:
  idgatectl organization create org-42 org-tenant.com --name Engineering`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		orgID := args[0]
		tenantDomain := args[1]
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = orgID
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		org := &model.Organization{OrgID: orgID, Name: name, TenantDomain: tenantDomain}
		if err := directorygorm.NewOrganizationDirectory(database).CreateOrganization(context.Background(), org); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create organization %s: %v\n", orgID, err)
			os.Exit(1)
		}

		fmt.Printf("Created organization %s under tenant %s\n", orgID, tenantDomain)
	},
}

var organizationListCmd = &cobra.Command{
	Use:   "list <tenant-domain>",
	Short: "List the organizations owned by a tenant",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tenantDomain := args[0]

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		orgs, err := directorygorm.NewOrganizationDirectory(database).ListOrganizations(context.Background(), tenantDomain)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to list organizations:", err)
			os.Exit(1)
		}

		fmt.Printf("%-20s %-30s %s\n", "ORG-ID", "NAME", "TENANT")
		for _, o := range orgs {
			fmt.Printf("%-20s %-30s %s\n", o.OrgID, o.Name, o.TenantDomain)
		}
	},
}

func init() {
	rootCmd.AddCommand(organizationCmd)
	organizationCmd.AddCommand(organizationCreateCmd)
	organizationCmd.AddCommand(organizationListCmd)

	organizationCreateCmd.Flags().StringP("name", "n", "", "display name of the organization")
}
