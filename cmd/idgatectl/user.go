package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/quorial/idgate/pkg/db"
	directorygorm "github.com/quorial/idgate/pkg/directory/gorm"
	"github.com/quorial/idgate/pkg/model"
	"github.com/quorial/idgate/pkg/strategy/basic"
	userstoregorm "github.com/quorial/idgate/pkg/userstore/gorm"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user-store entries",
	Long:  `Manage the user-store entries of a tenant.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (create, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create <tenant-domain> <username>",
	Short: "Create a user in a tenant's user store",
	Long: `Create a user in a tenant's user store.

With --password, a login credential is stored alongside the entry so the
basic strategy can authenticate the user.

Example:
  idgatectl user create acme.com alice --user-id uid-1 --store-domain PRIMARY --password s3cret`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		tenantDomain := args[0]
		username := args[1]
		userID, _ := cmd.Flags().GetString("user-id")
		storeDomain, _ := cmd.Flags().GetString("store-domain")
		password, _ := cmd.Flags().GetString("password")
		if userID == "" {
			fmt.Fprintln(os.Stderr, "--user-id is required")
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		ctx := context.Background()
		tenantID, err := directorygorm.NewTenantDirectory(database).TenantID(ctx, tenantDomain)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unknown tenant %s: %v\n", tenantDomain, err)
			os.Exit(1)
		}

		gateway := userstoregorm.NewGateway(database, tenantID)
		user := &model.User{UserID: userID, Username: username, StoreDomain: storeDomain}
		if err := gateway.CreateUser(ctx, user); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user %s: %v\n", username, err)
			os.Exit(1)
		}

		if password != "" {
			if err := storeCredential(database, tenantDomain, username, password); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to store credential for %s: %v\n", username, err)
				os.Exit(1)
			}
		}

		fmt.Printf("Created user %s (id %s) in tenant %s\n", username, userID, tenantDomain)
	},
}

var userListCmd = &cobra.Command{
	Use:   "list <tenant-domain>",
	Short: "List the users of a tenant",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tenantDomain := args[0]

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		ctx := context.Background()
		tenantID, err := directorygorm.NewTenantDirectory(database).TenantID(ctx, tenantDomain)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unknown tenant %s: %v\n", tenantDomain, err)
			os.Exit(1)
		}

		users, err := userstoregorm.NewGateway(database, tenantID).ListUsers(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to list users:", err)
			os.Exit(1)
		}

		fmt.Printf("%-20s %-30s %s\n", "USER-ID", "USERNAME", "STORE-DOMAIN")
		for _, u := range users {
			fmt.Printf("%-20s %-30s %s\n", u.UserID, u.Username, u.StoreDomain)
		}
	},
}

func storeCredential(database *gorm.DB, tenantDomain, username, password string) error {
	credential := &model.Credential{
		TenantDomain: tenantDomain,
		Username:     username,
		PasswordHash: basic.HashPassword([]byte(password)),
	}
	return database.Create(credential).Error
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)

	userCreateCmd.Flags().String("user-id", "", "canonical user id")
	userCreateCmd.Flags().String("store-domain", "", "user store domain (e.g. PRIMARY)")
	userCreateCmd.Flags().String("password", "", "login password to store for the basic strategy")
}
