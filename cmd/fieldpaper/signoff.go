package main

import (
	"fmt"

	"github.com/fieldpaper-dev/fieldpaper/internal/cli"
	"github.com/fieldpaper-dev/fieldpaper/internal/signoff"

	"github.com/spf13/cobra"
)

func signoffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signoff",
		Short: "Set or clear review/completion signoffs",
		RunE:  runSignoff,
	}
	cmd.Flags().String("client", "", "client id (required)")
	cmd.Flags().String("period", "", "period id (required)")
	cmd.Flags().String("code", "", "document code (required)")
	cmd.Flags().String("kind", "REVIEWED", "signoff kind: REVIEWED or COMPLETED")
	cmd.Flags().Bool("clear", false, "clear the signoff instead of setting it")
	cmd.Flags().String("member", "", "acting member id (required unless --clear)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("period")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func runSignoff(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")
	periodID, _ := cmd.Flags().GetString("period")
	code, _ := cmd.Flags().GetString("code")
	kind, _ := cmd.Flags().GetString("kind")
	clear, _ := cmd.Flags().GetBool("clear")
	memberID, _ := cmd.Flags().GetString("member")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := signoff.NewService(store).Toggle(ctx, signoff.ToggleInput{
		ClientID: clientID,
		PeriodID: periodID,
		Code:     code,
		Kind:     signoff.Kind(kind),
		Checked:  !clear,
		MemberID: memberID,
	})
	if err != nil {
		return err
	}
	if !result.Success {
		fmt.Println(cli.ErrorStyle.Render(result.Message))
		return fmt.Errorf("signoff rejected: %s", result.Message)
	}

	if clear {
		fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s signoff cleared on %s.", kind, code)))
	} else {
		fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s signoff set on %s by %s.", kind, code, memberID)))
	}
	return nil
}
