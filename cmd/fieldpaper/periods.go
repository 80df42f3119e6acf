package main

import (
	"fmt"
	"time"

	"github.com/fieldpaper-dev/fieldpaper/internal/cli"
	"github.com/fieldpaper-dev/fieldpaper/internal/common"
	"github.com/fieldpaper-dev/fieldpaper/internal/model"
	"github.com/fieldpaper-dev/fieldpaper/internal/period"

	"github.com/spf13/cobra"
)

func periodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Manage a client's accounting periods",
	}

	cmd.AddCommand(periodsListCmd())
	cmd.AddCommand(periodsCreateCmd())
	cmd.AddCommand(periodsPromoteCmd())
	cmd.AddCommand(periodsCloseCmd())

	return cmd
}

func periodsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a client's periods",
		RunE:  runPeriodsList,
	}
	cmd.Flags().String("client", "", "client id (required)")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

func runPeriodsList(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	periods, err := period.NewService(store).List(ctx, clientID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Periods for %s", clientID)))
	if len(periods) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No periods found."))
		return nil
	}
	for _, p := range periods {
		current := ""
		if p.IsCurrent {
			current = cli.SuccessStyle.Render(" (current)")
		}
		fmt.Printf("%s  %s  %s to %s  %s%s\n",
			cli.TableCellStyle.Render(p.ID),
			p.Name,
			p.StartDate.Format("2006-01-02"),
			p.EndDate.Format("2006-01-02"),
			cli.RenderStatus(string(p.Status)),
			current)
	}
	return nil
}

func periodsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new planned period",
		RunE:  runPeriodsCreate,
	}
	cmd.Flags().String("client", "", "client id (required)")
	cmd.Flags().String("name", "", "period name, e.g. 'FY2026' (required)")
	cmd.Flags().String("start", "", "start date, YYYY-MM-DD (required)")
	cmd.Flags().String("end", "", "end date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func runPeriodsCreate(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")
	name, _ := cmd.Flags().GetString("name")
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", startStr, err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", endStr, err)
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	p, err := period.NewService(store).Create(ctx, clientID, name, start, end)
	if err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created period %s (%s)", p.Name, p.ID)))
	return nil
}

func periodsPromoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote a period to be the client's open, current period",
		RunE:  runPeriodsPromote,
	}
	cmd.Flags().String("client", "", "client id (required)")
	cmd.Flags().String("period", "", "period id (required)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func runPeriodsPromote(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")
	periodID, _ := cmd.Flags().GetString("period")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := period.NewService(store).PromoteToOpen(ctx, clientID, periodID)
	if err != nil {
		if common.IsConflict(err) {
			fmt.Println(cli.WarningStyle.Render(
				"Another period is open for this client; close it before promoting."))
		}
		return err
	}

	if result.Promoted {
		fmt.Println(cli.SuccessStyle.Render("Period promoted to open."))
	} else {
		fmt.Println(cli.SubtleStyle.Render("Period was already open; nothing to do."))
	}
	return nil
}

func periodsCloseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close an open period",
		RunE:  runPeriodsClose,
	}
	cmd.Flags().String("client", "", "client id (required)")
	cmd.Flags().String("period", "", "period id (required)")
	cmd.Flags().Bool("finalize", true, "move straight to CLOSED instead of CLOSING")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func runPeriodsClose(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")
	periodID, _ := cmd.Flags().GetString("period")
	finalize, _ := cmd.Flags().GetBool("finalize")

	target := model.PeriodClosing
	if finalize {
		target = model.PeriodClosed
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := period.NewService(store).Close(ctx, clientID, periodID, target); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Period moved to %s.", target)))
	return nil
}
