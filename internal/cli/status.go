package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/arcbenefit/internal/azure"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show Azure session and subscription status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			token, tokenErr := session.Probe(ctx)

			machineCount := -1
			listed, listErr := resClient.ListResources(ctx, azure.ListFilter{ResourceType: azure.ArcMachineType})
			if listErr == nil {
				machineCount = len(listed)
			}

			if getOutputFormat() != "table" {
				out := map[string]interface{}{
					"subscription":                session.SubscriptionID,
					"machines_api_version":        cfg.Azure.MachinesAPIVersion,
					"license_profile_api_version": cfg.Azure.LicenseProfileAPIVersion,
				}
				if session.TenantID != "" {
					out["tenant"] = session.TenantID
				}
				if tokenErr == nil {
					out["token_expires_on"] = token.ExpiresOn
				}
				if listErr == nil {
					out["arc_machines"] = machineCount
				}
				return printOutput(out)
			}

			fmt.Println("arcbenefit status")
			fmt.Println(strings.Repeat("=", 40))

			fmt.Printf("  Subscription:   %s\n", session.SubscriptionID)
			tenant := session.TenantID
			if tenant == "" {
				tenant = "(default)"
			}
			fmt.Printf("  Tenant:         %s\n", tenant)

			if tokenErr != nil {
				fmt.Printf("  Token:          (error: %v)\n", tokenErr)
			} else {
				fmt.Printf("  Token:          valid, expires in %s\n",
					time.Until(token.ExpiresOn).Round(time.Minute))
			}

			if listErr != nil {
				fmt.Printf("  Arc machines:   (error: %v)\n", listErr)
			} else {
				fmt.Printf("  Arc machines:   %d connected\n", machineCount)
			}

			fmt.Printf("  API versions:   machines %s, license profiles %s\n",
				cfg.Azure.MachinesAPIVersion, cfg.Azure.LicenseProfileAPIVersion)

			return nil
		},
	}
}
