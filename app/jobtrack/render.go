package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yoockh/jobtrack/internal/datefmt"
	"github.com/yoockh/jobtrack/internal/models"
)

var ansi = map[string]string{
	"blue":    "\x1b[34m",
	"orange":  "\x1b[33m",
	"emerald": "\x1b[32m",
	"red":     "\x1b[31m",
}

func statusLabel(s models.Status, color bool) string {
	if code, ok := ansi[s.Badge()]; ok && color {
		return code + string(s) + "\x1b[0m"
	}
	return string(s)
}

func writeList(w io.Writer, apps []models.JobApplication, total int, userID string, color bool) {
	if len(apps) == 0 {
		if total == 0 {
			fmt.Fprintln(w, "No applications yet. Add one with: jobtrack add --company ... --role ...")
		} else {
			fmt.Fprintln(w, "No applications match your search.")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tROLE\tAPPLIED\tSTATUS\tCV")
	for _, a := range apps {
		cv := ""
		if a.HasAttachment() {
			cv = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Company, a.Role, datefmt.Display(a.DateApplied), statusLabel(a.Status, color), cv)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d of %d applications for %s\n", len(apps), total, userID)
}

func writeDetail(w io.Writer, a models.JobApplication, color bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Company:\t%s\n", a.Company)
	fmt.Fprintf(tw, "Role:\t%s\n", a.Role)
	fmt.Fprintf(tw, "Applied:\t%s\n", datefmt.Display(a.DateApplied))
	fmt.Fprintf(tw, "Status:\t%s\n", statusLabel(a.Status, color))
	if a.JobLink != "" {
		fmt.Fprintf(tw, "Job link:\t%s\n", a.JobLink)
	}
	if a.HasAttachment() {
		fmt.Fprintf(tw, "CV:\t%s\n", *a.CVFileName)
	}
	fmt.Fprintf(tw, "ID:\t%s\n", a.ID)
	_ = tw.Flush()

	if notes := strings.TrimSpace(a.Notes); notes != "" {
		fmt.Fprintf(w, "\nNotes:\n%s\n", notes)
	}
}

// writeCalendar prints a Sunday-first grid. The selected day is bracketed and
// today carries a star.
func writeCalendar(w io.Writer, v datefmt.MonthView, selected string) {
	fmt.Fprintln(w, v.Title())
	for _, h := range datefmt.WeekdayHeader {
		fmt.Fprintf(w, " %s ", h)
	}
	fmt.Fprintln(w)

	for i, d := range v.Cells() {
		switch {
		case d == 0:
			fmt.Fprint(w, "    ")
		case v.IsSelected(selected, d):
			fmt.Fprintf(w, "[%2d]", d)
		case v.IsToday(d):
			fmt.Fprintf(w, "*%2d ", d)
		default:
			fmt.Fprintf(w, " %2d ", d)
		}
		if i%7 == 6 {
			fmt.Fprintln(w)
		}
	}
	if len(v.Cells())%7 != 0 {
		fmt.Fprintln(w)
	}
}
