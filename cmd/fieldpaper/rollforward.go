package main

import (
	"fmt"

	"github.com/fieldpaper-dev/fieldpaper/internal/cli"
	"github.com/fieldpaper-dev/fieldpaper/internal/rollforward"

	"github.com/spf13/cobra"
)

func rollForwardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollforward",
		Short: "Copy a period's working papers into another period",
		Long: `Copy every working paper from a source period into a target period,
clearing entered values so the new period starts from the same structure.
Documents already present at the target are skipped unless --overwrite is set.`,
		RunE: runRollForward,
	}
	cmd.Flags().String("client", "", "client id (required)")
	cmd.Flags().String("from", "", "source period id (required)")
	cmd.Flags().String("to", "", "target period id (required)")
	cmd.Flags().Bool("overwrite", false, "replace documents already present at the target")
	cmd.Flags().Bool("reset-complete", true, "clear completion flags on copied documents")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runRollForward(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")
	fromID, _ := cmd.Flags().GetString("from")
	toID, _ := cmd.Flags().GetString("to")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	resetComplete, _ := cmd.Flags().GetBool("reset-complete")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := rollforward.Options{Overwrite: overwrite, ResetComplete: resetComplete}
	result, err := rollforward.New(store).RollForward(ctx, clientID, fromID, toID, opts)
	if err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
		"Roll-forward finished: %d considered, %d copied, %d overwritten.",
		result.Considered, result.Copied, result.Overwritten)))
	return nil
}
