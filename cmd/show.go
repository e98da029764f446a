package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetboard/core/model"
	"github.com/kilianp07/fleetboard/pkg/export"
)

var showCmd = &cobra.Command{
	Use:   "show [route|trip|staff|asset] [id]",
	Short: "Print the board, one owner, or where a resource is bound",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("accepts 0 or 2 args, received %d", len(args))
		}
		return nil
	},
	RunE: runShow,
}

var historyOpts struct {
	limit  int
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print recent board changes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check the assignment indices",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 20, "number of entries to print")
	historyCmd.Flags().StringVarP(&historyOpts.format, "format", "o", "table", "output format (table, json, ndjson)")
	rootCmd.AddCommand(showCmd, historyCmd, verifyCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, done, err := openBoard(cmd, false)
	if err != nil {
		return err
	}
	defer done()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		rows := ownerRows(model.OwnerRoute, svc.Engine.RouteAssignments())
		rows = append(rows, ownerRows(model.OwnerFieldTrip, svc.Engine.FieldTripAssignments())...)
		return printTable(out, []string{"OWNER", "DRIVER", "ESCORTS", "ASSET", "TRAILER"}, rows)
	}

	if res, err := parseResource(args[0], args[1]); err == nil {
		b, ok := svc.Engine.ResourceBinding(res)
		if !ok {
			_, err := fmt.Fprintf(out, "%s is not assigned\n", res)
			return err
		}
		_, err := fmt.Fprintf(out, "%s is the %s on %s\n", res, b.Role, b.Owner)
		return err
	}
	owner, err := parseOwner(args[0], args[1])
	if err != nil {
		return fmt.Errorf("unknown kind %q (want route, trip, staff or asset)", args[0])
	}
	a := svc.Engine.OwnerAssignment(owner)
	return printTable(out, []string{"OWNER", "DRIVER", "ESCORTS", "ASSET", "TRAILER"}, [][]string{assignmentRow(owner, a)})
}

func ownerRows(kind model.OwnerKind, all map[string]model.Assignment) [][]string {
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, assignmentRow(model.OwnerRef{Kind: kind, ID: id}, all[id]))
	}
	return rows
}

func assignmentRow(owner model.OwnerRef, a model.Assignment) []string {
	return []string{owner.String(), dash(a.Driver), dash(strings.Join(a.Escorts, ", ")), dash(a.Asset), dash(a.Trailer)}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printTable(out io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "no assignments")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(out, t.String())
	return err
}

func runHistory(cmd *cobra.Command, _ []string) error {
	svc, done, err := openBoard(cmd, false)
	if err != nil {
		return err
	}
	defer done()
	entries := svc.Engine.History(historyOpts.limit)
	if historyOpts.format != "table" {
		return export.Write(cmd.OutOrStdout(), export.Format(historyOpts.format), entries)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			string(e.Kind),
			e.Owner.String(),
			dash(string(e.Role)),
			strings.Join(e.Resources, ", "),
			dash(e.Note),
		})
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "no history")
		return err
	}
	return printTable(cmd.OutOrStdout(), []string{"TIME", "KIND", "OWNER", "ROLE", "RESOURCES", "NOTE"}, rows)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	svc, done, err := openBoard(cmd, false)
	if err != nil {
		return err
	}
	defer done()
	issues := svc.Engine.Verify()
	if len(issues) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "indices consistent")
		return err
	}
	for _, i := range issues {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), i.String()); err != nil {
			return err
		}
	}
	return fmt.Errorf("%d inconsistencies", len(issues))
}
