package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/arcbenefit/internal/domain/benefit"
	"github.com/pratik-mahalle/arcbenefit/internal/domain/machine"
	"github.com/pratik-mahalle/arcbenefit/internal/services"
)

func newEnableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enable",
		Short: "Enable Software Assurance attestation",
		Long: `Enable sets softwareAssuranceCustomer on the default license profile of
Arc-enabled Windows Server machines. Pick a single machine, a resource
group, or the whole subscription.`,
	}

	cmd.AddCommand(newEnableMachineCmd())
	cmd.AddCommand(newEnableGroupCmd())
	cmd.AddCommand(newEnableSubscriptionCmd())

	return cmd
}

func newEnableMachineCmd() *cobra.Command {
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "machine <resource-group> <machine-name>",
		Short: "Enable Software Assurance on a single machine",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnable(cmd, machine.SingleMachine(args[0], args[1]), enableOptions{
				confirm:    benefit.ConfirmNever,
				verify:     !noVerify,
				strictRead: cfg.Reconcile.StrictRead,
			})
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "skip the read-back check after enabling")

	return cmd
}

func newEnableGroupCmd() *cobra.Command {
	var (
		exclude    []string
		yes        bool
		verify     bool
		strictRead bool
	)

	cmd := &cobra.Command{
		Use:   "group <resource-group>",
		Short: "Enable Software Assurance on every Windows machine in a resource group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnable(cmd, machine.AllInResourceGroup(args[0]), enableOptions{
				confirm:    benefit.ConfirmMultiple,
				exclude:    exclude,
				yes:        yes,
				verify:     verify || cfg.Reconcile.Verify,
				strictRead: strictRead || cfg.Reconcile.StrictRead,
			})
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "machine names to skip (exact, case-sensitive)")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-read each license profile after enabling")
	cmd.Flags().BoolVar(&strictRead, "strict-read", false, "fail a machine whose license profile read is denied")

	return cmd
}

func newEnableSubscriptionCmd() *cobra.Command {
	var (
		exclude    []string
		yes        bool
		verify     bool
		strictRead bool
	)

	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Enable Software Assurance on every Windows machine in the subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnable(cmd, machine.AllInSubscription(), enableOptions{
				confirm:    benefit.ConfirmAlways,
				exclude:    exclude,
				yes:        yes,
				verify:     verify || cfg.Reconcile.Verify,
				strictRead: strictRead || cfg.Reconcile.StrictRead,
			})
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "machine names to skip (exact, case-sensitive)")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-read each license profile after enabling")
	cmd.Flags().BoolVar(&strictRead, "strict-read", false, "fail a machine whose license profile read is denied")

	return cmd
}

type enableOptions struct {
	confirm    benefit.ConfirmMode
	exclude    []string
	yes        bool
	verify     bool
	strictRead bool
}

func runEnable(cmd *cobra.Command, scope machine.Scope, opts enableOptions) error {
	ctx := cmd.Context()

	selector := services.NewSelectorService(resClient, session.SubscriptionID, cfg.Azure.MachinesAPIVersion, log)
	machines, err := selector.Select(ctx, scope, opts.exclude)
	if err != nil {
		return err
	}

	confirm := opts.confirm
	if opts.yes {
		confirm = benefit.ConfirmNever
	}

	reconciler := services.NewReconcilerService(resClient, cfg.Azure.LicenseProfileAPIVersion, services.ReconcilerOptions{
		Verify:     opts.verify,
		StrictRead: opts.strictRead,
	}, log)
	runner := services.NewRunnerService(reconciler, services.RunnerOptions{
		Confirm:     confirm,
		ConfirmFunc: confirmEnable,
	}, log)

	outcomes, summary, err := runner.Run(ctx, machines)
	if err != nil {
		if errors.Is(err, benefit.ErrRunCancelled) {
			fmt.Println("Run cancelled.")
			return nil
		}
		return err
	}

	if err := renderRun(outcomes, summary); err != nil {
		return err
	}

	// A named machine that fails is an error; batch runs report failures
	// in the summary and still exit clean.
	if scope.Kind == machine.ScopeMachine && summary.Failed > 0 {
		return fmt.Errorf("failed to enable Software Assurance on %s: %s",
			outcomes[0].Machine, outcomes[0].Detail)
	}
	return nil
}
