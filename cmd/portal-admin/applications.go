package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/itimad/portal-api/internal/data"
	"github.com/itimad/portal-api/internal/domain/model"
)

type listApplicationsOptions struct {
	Status     string
	CenterType string
	Limit      int
	Offset     int
}

func parseListApplicationsFlags(args []string) (listApplicationsOptions, error) {
	fs := flag.NewFlagSet("list-applications", flag.ContinueOnError)
	opts := listApplicationsOptions{}
	fs.StringVar(&opts.Status, "status", "", "filter by status (submitted, under_review, field_visit, under_evaluation, accepted, rejected)")
	fs.StringVar(&opts.CenterType, "center-type", "", "filter by track (training or testing)")
	fs.IntVar(&opts.Limit, "limit", 50, "maximum rows to print")
	fs.IntVar(&opts.Offset, "offset", 0, "rows to skip")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func runListApplications(cmdCtx *commandContext, args []string) error {
	opts, err := parseListApplicationsFlags(args)
	if err != nil {
		return err
	}

	listOpts := model.ApplicationsListOptions{Limit: opts.Limit, Offset: opts.Offset}
	if opts.Status != "" {
		status, ok := model.ParseApplicationStatus(opts.Status)
		if !ok {
			return fmt.Errorf("invalid --status %q", opts.Status)
		}
		listOpts.Status = &status
	}
	if opts.CenterType != "" {
		centerType := model.CenterType(opts.CenterType)
		if !centerType.Valid() {
			return errors.New("invalid --center-type (valid options: training, testing)")
		}
		listOpts.CenterType = &centerType
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer closeDB(cmdCtx, db)

	apps, err := data.NewApplicationRepo(db).ListWithOptions(ctx, listOpts)
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}

	if len(apps) == 0 {
		return writeln(os.Stdout, "No applications matched.")
	}

	return renderApplicationsTable(apps)
}

func renderApplicationsTable(apps []*model.Application) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tSTATUS\tTRACK\tCENTER\tCITY\tSUBMITTED"); err != nil {
		return fmt.Errorf("write applications header row: %w", err)
	}

	for _, app := range apps {
		if err := writef(
			tw,
			"%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ID,
			app.Status,
			app.CenterType,
			app.CenterName,
			app.City,
			app.SubmittedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("write application row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush applications table: %w", err)
	}
	return nil
}
