package main

import (
	"encoding/json"
	"fmt"

	"github.com/fieldpaper-dev/fieldpaper/internal/cli"
	"github.com/fieldpaper-dev/fieldpaper/internal/document"
	"github.com/fieldpaper-dev/fieldpaper/internal/model"
	"github.com/fieldpaper-dev/fieldpaper/internal/templates"

	"github.com/spf13/cobra"
)

func docsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Inspect a period's working papers",
	}

	cmd.AddCommand(docsListCmd())
	cmd.AddCommand(docsShowCmd())
	cmd.AddCommand(docsMaterialityCmd())

	return cmd
}

func docsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents stored under a period",
		RunE:  runDocsList,
	}
	cmd.Flags().String("client", "", "client id (required)")
	cmd.Flags().String("period", "", "period id (required)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")
	periodID, _ := cmd.Flags().GetString("period")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	docs, err := document.NewService(store).List(ctx, clientID, periodID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Working papers"))
	if len(docs) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No documents stored for this period yet."))
		fmt.Printf("Available templates: %v\n", templates.Codes())
		return nil
	}
	for _, d := range docs {
		status := cli.SubtleStyle.Render("in progress")
		if d.Complete {
			status = cli.SuccessStyle.Render("complete")
		}
		title := d.Code
		if tpl, ok := templates.Get(d.Code); ok {
			title = fmt.Sprintf("%s  %s", d.Code, tpl.Title)
		}
		fmt.Printf("%s  [%s]  %s\n", cli.TableCellStyle.Render(title), d.Kind, status)
	}
	return nil
}

func docsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one document with computed values",
		RunE:  runDocsShow,
	}
	cmd.Flags().String("client", "", "client id (required)")
	cmd.Flags().String("period", "", "period id (required)")
	cmd.Flags().String("code", "", "document code, e.g. C10 (required)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("period")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func runDocsShow(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")
	periodID, _ := cmd.Flags().GetString("period")
	code, _ := cmd.Flags().GetString("code")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	doc, err := document.NewService(store).Get(ctx, clientID, periodID, code)
	if err != nil {
		return err
	}
	if doc == nil {
		fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("No document or template for code %s.", code)))
		return nil
	}

	if mat, ok := doc.Content.(*model.Materiality); ok && mat.GeneratedMarkdown != "" {
		fmt.Println(mat.GeneratedMarkdown)
		return nil
	}

	raw, err := json.MarshalIndent(doc.Content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s (%s)", doc.Code, doc.Kind)))
	fmt.Println(string(raw))
	return nil
}

func docsMaterialityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materiality",
		Short: "Generate the materiality document from the period's setup",
		RunE:  runDocsMateriality,
	}
	cmd.Flags().String("client", "", "client id (required)")
	cmd.Flags().String("period", "", "period id (required)")
	cmd.Flags().String("code", "A20", "materiality document code")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func runDocsMateriality(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")
	periodID, _ := cmd.Flags().GetString("period")
	code, _ := cmd.Flags().GetString("code")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	doc, err := document.NewService(store).GenerateMateriality(ctx, clientID, periodID, code)
	if err != nil {
		return err
	}

	if mat, ok := doc.Content.(*model.Materiality); ok {
		fmt.Println(mat.GeneratedMarkdown)
	}
	return nil
}
