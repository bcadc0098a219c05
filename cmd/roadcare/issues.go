package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"roadcare/internal/config"
	"roadcare/internal/core/domain"
	"roadcare/internal/core/services"

	"github.com/spf13/cobra"
)

const descriptionWidth = 48

func (c *cli) issuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List, inspect and report road-surface issues",
	}

	var mine bool
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleUser, domain.RoleAdmin); err != nil {
				return err
			}
			svc := c.issueService()

			var issues []domain.Issue
			var err error
			switch {
			case mine:
				issues, err = svc.Mine(cmd.Context())
			case status != "":
				issues, err = svc.ListByStatus(cmd.Context(), status)
			default:
				issues, err = svc.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(issues)
			}
			printIssues(c.out, issues)
			return nil
		},
	}
	list.Flags().BoolVar(&mine, "mine", false, "Only issues I reported")
	list.Flags().StringVar(&status, "status", "", "Only issues in this status (Reported, InProgress, Resolved)")

	show := &cobra.Command{
		Use:   "show <issue-id>",
		Short: "Show an issue with its responses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleUser, domain.RoleAdmin); err != nil {
				return err
			}
			issue, err := c.issueService().Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(issue)
			}
			printIssue(c.out, issue)
			return nil
		},
	}

	var in services.ReportIssueInput
	var suggest bool
	report := &cobra.Command{
		Use:   "report",
		Short: "Report a new issue",
		Long: `Report a new road-surface issue at a location.

With --suggest the description is drafted by the assistant from --brief.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleUser, domain.RoleAdmin); err != nil {
				return err
			}
			if suggest {
				suggestion, err := services.NewAssistantService(c.assistantConfig()).Suggest(cmd.Context(), domain.SuggestionRequest{
					Location:   in.Location,
					BriefInput: in.BriefInput,
				})
				if err != nil {
					return err
				}
				in.Description = suggestion.SuggestedDescription
			}

			issue, err := c.issueService().Report(cmd.Context(), in)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(issue)
			}
			fmt.Fprintf(c.out, "Reported issue %s\n", issue.ID)
			return nil
		},
	}
	report.Flags().StringVar(&in.Location, "location", "", "Where the defect is")
	report.Flags().StringVar(&in.Description, "description", "", "What is wrong")
	report.Flags().StringVar(&in.BriefInput, "brief", "", "Short note for the description assistant")
	report.Flags().BoolVar(&suggest, "suggest", false, "Draft the description from --brief")
	_ = report.MarkFlagRequired("location")

	cmd.AddCommand(list, show, report)
	return cmd
}

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage issues as a utility administrator",
	}

	var q services.DashboardQuery
	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Filter and page through all issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleAdmin); err != nil {
				return err
			}
			page, err := c.issueService().Dashboard(cmd.Context(), q)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(page)
			}
			printIssues(c.out, page.Issues)
			fmt.Fprintf(c.out, "\nPage %d of %d (%d issues)\n", page.Meta.Page, page.Meta.TotalPages, page.Meta.Total)
			return nil
		},
	}
	dashboard.Flags().StringVar(&q.Status, "status", services.StatusAll, "Status filter or \"all\"")
	dashboard.Flags().StringVar(&q.Search, "search", "", "Match description or location")
	dashboard.Flags().IntVar(&q.Page, "page", 1, "Page number")
	dashboard.Flags().IntVar(&q.Limit, "limit", 20, "Issues per page")

	status := &cobra.Command{
		Use:   "status <issue-id> <status>",
		Short: "Move an issue to Reported, InProgress or Resolved",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleAdmin); err != nil {
				return err
			}
			if err := c.issueService().ChangeStatus(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Issue %s is now %s\n", args[0], args[1])
			return nil
		},
	}

	var update services.UpdateIssueInput
	edit := &cobra.Command{
		Use:   "update <issue-id>",
		Short: "Rewrite an issue's location and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleAdmin); err != nil {
				return err
			}
			if err := c.issueService().Update(cmd.Context(), args[0], update); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated issue %s\n", args[0])
			return nil
		},
	}
	edit.Flags().StringVar(&update.Location, "location", "", "Where the defect is")
	edit.Flags().StringVar(&update.Description, "description", "", "What is wrong")
	edit.Flags().StringVar(&update.Status, "status", "", "New status (keeps the current one when empty)")
	_ = edit.MarkFlagRequired("location")
	_ = edit.MarkFlagRequired("description")

	remove := &cobra.Command{
		Use:   "delete <issue-id>",
		Short: "Delete an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleAdmin); err != nil {
				return err
			}
			if err := c.issueService().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted issue %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(dashboard, status, edit, remove)
	return cmd
}

func (c *cli) responsesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "responses",
		Short: "Answer issues on behalf of the utility",
	}

	add := &cobra.Command{
		Use:   "add <issue-id> <comment>",
		Short: "Attach a response to an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleAdmin); err != nil {
				return err
			}
			resp, err := c.issueService().Respond(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(resp)
			}
			fmt.Fprintf(c.out, "Added response %s\n", resp.ID)
			return nil
		},
	}

	edit := &cobra.Command{
		Use:   "edit <response-id> <issue-id> <comment>",
		Short: "Replace the comment of a response",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleAdmin); err != nil {
				return err
			}
			if err := c.issueService().EditResponse(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated response %s\n", args[0])
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <response-id>",
		Short: "Delete a response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleAdmin); err != nil {
				return err
			}
			if err := c.issueService().DeleteResponse(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted response %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, edit, remove)
	return cmd
}

func (c *cli) suggestCmd() *cobra.Command {
	var req domain.SuggestionRequest

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Draft an issue description from a short note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.gate(domain.RoleUser, domain.RoleAdmin); err != nil {
				return err
			}
			suggestion, err := services.NewAssistantService(c.assistantConfig()).Suggest(cmd.Context(), req)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(suggestion)
			}
			fmt.Fprintln(c.out, suggestion.SuggestedDescription)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Location, "location", "", "Where the defect is")
	cmd.Flags().StringVar(&req.BriefInput, "brief", "", "Short note about the defect")
	return cmd
}

func (c *cli) assistantConfig() config.AssistantConfig {
	return c.cfg.Assistant
}

func printIssues(w io.Writer, issues []domain.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tREPORTED\tLOCATION\tDESCRIPTION")
	for _, issue := range issues {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			issue.ID, issue.Status, reportedDay(issue.ReportedDate), issue.Location, truncate(issue.Description, descriptionWidth))
	}
	tw.Flush()
}

func printIssue(w io.Writer, issue *domain.Issue) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", issue.ID)
	fmt.Fprintf(tw, "Status:\t%s\n", issue.Status)
	fmt.Fprintf(tw, "Reported:\t%s\n", reportedDay(issue.ReportedDate))
	fmt.Fprintf(tw, "Location:\t%s\n", issue.Location)
	fmt.Fprintf(tw, "Description:\t%s\n", issue.Description)
	tw.Flush()

	fmt.Fprintf(w, "\nResponses (%d)\n", len(issue.Responses))
	for _, r := range issue.Responses {
		fmt.Fprintf(w, "  [%s] %s: %s\n", reportedDay(r.ResponseDate), r.ID, r.Comment)
	}
}

// reportedDay trims an ISO timestamp to its date
func reportedDay(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i > 0 {
		return ts[:i]
	}
	return ts
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
