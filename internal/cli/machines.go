package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/arcbenefit/internal/azure"
	"github.com/pratik-mahalle/arcbenefit/internal/domain/benefit"
	"github.com/pratik-mahalle/arcbenefit/internal/domain/machine"
	"github.com/pratik-mahalle/arcbenefit/internal/services"
)

func newMachinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machines",
		Short: "Inspect Arc-enabled machines",
	}

	cmd.AddCommand(newMachinesListCmd())

	return cmd
}

func newMachinesListCmd() *cobra.Command {
	var resourceGroup string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Windows machines and their Software Assurance state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			scope := machine.AllInSubscription()
			if resourceGroup != "" {
				scope = machine.AllInResourceGroup(resourceGroup)
			}

			selector := services.NewSelectorService(resClient, session.SubscriptionID, cfg.Azure.MachinesAPIVersion, log)
			machines, err := selector.Select(ctx, scope, nil)
			if err != nil {
				if errors.Is(err, machine.ErrNoMachines) {
					fmt.Printf("No Arc-enabled Windows machines in %s.\n", scope)
					return nil
				}
				return err
			}

			type row struct {
				machine.MachineRef
				Benefit string `json:"benefit" yaml:"benefit"`
			}

			rows := make([]row, 0, len(machines))
			for _, m := range machines {
				state := benefit.StateAbsent
				if res, err := resClient.GetResource(ctx, azure.LicenseProfileID(m.ResourceID), cfg.Azure.LicenseProfileAPIVersion); err == nil {
					state = benefit.StateFromProperties(res.Properties)
				}
				rows = append(rows, row{MachineRef: m, Benefit: state.String()})
			}

			if getOutputFormat() != "table" {
				return printOutput(rows)
			}

			table := NewTable("NAME", "RESOURCE GROUP", "LOCATION", "OS", "BENEFIT")
			for _, r := range rows {
				table.AddRow(r.Name, r.ResourceGroup, r.Location, truncate(r.OSName, 40), formatBenefit(r.Benefit))
			}
			table.Render()

			fmt.Printf("\n%d machine(s)\n", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&resourceGroup, "resource-group", "", "limit the listing to one resource group")

	return cmd
}
