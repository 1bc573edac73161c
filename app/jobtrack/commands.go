package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yoockh/jobtrack/internal/attachment"
	"github.com/yoockh/jobtrack/internal/datefmt"
	"github.com/yoockh/jobtrack/internal/models"
)

const deletePrompt = "Are you sure you want to delete this job application? This action cannot be undone."

func newListCmd(opts *options) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List applications, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, done, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer done()

			apps := ctl.Search(search)
			writeList(cmd.OutOrStdout(), apps, ctl.Count(), ctl.UserID(), opts.color)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only show company or role matches (case-insensitive)")
	return cmd
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, done, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer done()

			if err := ctl.View(args[0]); err != nil {
				return err
			}
			app, _ := ctl.Viewing()
			writeDetail(cmd.OutOrStdout(), app, opts.color)
			return nil
		},
	}
}

// formFlags are the entry form fields shared by add and edit.
type formFlags struct {
	company  string
	role     string
	date     string
	status   string
	link     string
	notes    string
	cv       string
	removeCV bool
}

func (f *formFlags) register(cmd *cobra.Command, edit bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.company, "company", "", "company name")
	fl.StringVar(&f.role, "role", "", "role applied for")
	fl.StringVar(&f.date, "date", "", "date applied, DD/MM/YYYY (default today)")
	fl.StringVar(&f.status, "status", "", "Waiting, Interviewing, Offered or Declined")
	fl.StringVar(&f.link, "link", "", "job posting URL")
	fl.StringVar(&f.notes, "notes", "", "free-form notes")
	fl.StringVar(&f.cv, "cv", "", "attach a CV file (max 800KB)")
	if edit {
		fl.BoolVar(&f.removeCV, "remove-cv", false, "remove the attached CV")
		cmd.MarkFlagsMutuallyExclusive("cv", "remove-cv")
	}
}

// apply copies the flags that were set onto form.
func (f *formFlags) apply(cmd *cobra.Command, form *models.ApplicationForm) error {
	changed := cmd.Flags().Changed

	if changed("company") {
		form.Company = f.company
	}
	if changed("role") {
		form.Role = f.role
	}
	if changed("date") {
		form.DateApplied = datefmt.Format(datefmt.Parse(f.date))
	}
	if changed("status") {
		st, err := models.ParseStatus(f.status)
		if err != nil {
			return err
		}
		form.Status = st
	}
	if changed("link") {
		form.JobLink = f.link
	}
	if changed("notes") {
		form.Notes = f.notes
	}
	if f.removeCV {
		form.ClearAttachment()
	}
	if changed("cv") {
		src, err := attachment.FromPath(f.cv)
		if err != nil {
			return err
		}
		name, dataURL, err := attachment.Encode(src)
		if err != nil {
			return err
		}
		form.SetAttachment(name, dataURL)
	}
	return nil
}

func newAddCmd(opts *options) *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := models.NewForm()
			if err := ff.apply(cmd, &form); err != nil {
				return err
			}

			ctl, done, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer done()

			app, err := ctl.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s at %s)\n", app.ID, app.Role, app.Company)
			return nil
		},
	}
	ff.register(cmd, false)
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newEditCmd(opts *options) *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, done, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer done()

			existing, ok := ctl.Get(args[0])
			if !ok {
				return fmt.Errorf("no application with id %s", args[0])
			}
			form := existing.Form()
			if err := ff.apply(cmd, &form); err != nil {
				return err
			}

			app, err := ctl.Update(cmd.Context(), existing.ID, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", app.ID)
			return nil
		},
	}
	ff.register(cmd, true)
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an application",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, deletePrompt) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			ctl, done, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer done()

			if err := ctl.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	sc := bufio.NewScanner(cmd.InOrStdin())
	if !sc.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

func newCVCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "cv <id>",
		Short: "Save the attached CV to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, done, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer done()

			app, ok := ctl.Get(args[0])
			if !ok {
				return fmt.Errorf("no application with id %s", args[0])
			}
			if !app.HasAttachment() {
				return fmt.Errorf("application %s has no CV", app.ID)
			}

			mime, raw, err := attachment.Decode(*app.CVBase64)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = filepath.Base(*app.CVFileName)
			}
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %d bytes)\n", path, mime, len(raw))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: the stored file name)")
	return cmd
}

func newCalendarCmd() *cobra.Command {
	var (
		date   string
		offset int
	)
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the month of a date, with the day marked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := datefmt.TodayText()
			if date != "" {
				selected = datefmt.Format(datefmt.Parse(date))
			}
			view := datefmt.ViewOf(selected).Shift(offset)
			writeCalendar(cmd.OutOrStdout(), view, selected)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date to mark, DD/MM/YYYY (default today)")
	cmd.Flags().IntVar(&offset, "offset", 0, "months to move forward (negative for back)")
	return cmd
}
