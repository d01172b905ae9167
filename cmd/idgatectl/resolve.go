package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/db"
	directorygorm "github.com/quorial/idgate/pkg/directory/gorm"
	"github.com/quorial/idgate/pkg/identity"
	"github.com/quorial/idgate/pkg/reqcontext"
	"github.com/quorial/idgate/pkg/resolver"
	userstoregorm "github.com/quorial/idgate/pkg/userstore/gorm"
)

// resolveCmd runs identity resolution for a hand-built identity, without
// authenticating. Useful for verifying directory data.
var resolveCmd = &cobra.Command{
	Use:   "resolve <serving-tenant> <username>",
	Short: "Resolve an identity into its request context",
	Long: `Resolve an identity into its request context as if it had just
authenticated successfully on the given tenant.

Example:
  idgatectl resolve serving.com tenant1.com/uid-123 \
      --tenant tenant1.com --org-user --federated \
      --accessing-org org-7 --resident-org org-42`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		servingTenant := args[0]
		username := args[1]

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		tenantDomain, _ := cmd.Flags().GetString("tenant")
		storeDomain, _ := cmd.Flags().GetString("store-domain")
		userID, _ := cmd.Flags().GetString("user-id")
		orgUser, _ := cmd.Flags().GetBool("org-user")
		federated, _ := cmd.Flags().GetBool("federated")
		accessingOrg, _ := cmd.Flags().GetString("accessing-org")
		residentOrg, _ := cmd.Flags().GetString("resident-org")

		user := &identity.Identity{
			Username:        username,
			TenantDomain:    tenantDomain,
			UserStoreDomain: storeDomain,
		}
		if userID != "" || orgUser || federated || accessingOrg != "" || residentOrg != "" {
			user.Attrs = &identity.OrgAttributes{
				UserID:                  userID,
				FederatedUser:           federated,
				OrganizationUser:        orgUser,
				AccessingOrganizationID: accessingOrg,
				ResidentOrganizationID:  residentOrg,
			}
		}

		r := resolver.New(
			directorygorm.NewOrganizationDirectory(database),
			directorygorm.NewTenantDirectory(database),
			userstoregorm.NewRealmService(database),
		).WithAudit(nil)

		rc := reqcontext.New(servingTenant)
		result := r.Resolve(context.Background(), rc, authcore.Success(user))

		out := map[string]interface{}{
			"tenant_domain":            rc.TenantDomain(),
			"username":                 rc.Username(),
			"user_id":                  rc.UserID(),
			"resident_organization_id": rc.ResidentOrganizationID(),
			"degraded":                 result.Degraded(),
		}
		if result.Degraded() {
			diags := make([]string, 0, len(result.Diagnostics))
			for _, d := range result.Diagnostics {
				diags = append(diags, d.Error())
			}
			out["diagnostics"] = diags
		}

		encoded, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(encoded))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().String("tenant", "", "tenant domain of the identity")
	resolveCmd.Flags().String("store-domain", "", "user store domain of the identity")
	resolveCmd.Flags().String("user-id", "", "canonical user id attribute")
	resolveCmd.Flags().Bool("org-user", false, "identity is managed in an organization")
	resolveCmd.Flags().Bool("federated", false, "identity authenticated through federation")
	resolveCmd.Flags().String("accessing-org", "", "organization being accessed")
	resolveCmd.Flags().String("resident-org", "", "organization where the user account resides")
}
