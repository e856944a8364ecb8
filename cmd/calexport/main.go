// Command calexport renders a YAML snapshot of a student's data as an iCalendar file or
// as a plain-text month, week or day view.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/calendar_view"
	"github.com/studianta/studianta/pkg/ics_export"
)

var ErrUnknownMode = errors.New("unknown mode")

type options struct {
	snapshot string
	mode     string
	date     string
	out      string
}

func init() {
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now()); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("calexport", flag.ContinueOnError)
	fs.StringVar(&opts.snapshot, "snapshot", "studianta.yaml", "Path to the YAML snapshot")
	fs.StringVar(&opts.mode, "mode", "ics", "Output: ics, month, week or day")
	fs.StringVar(&opts.date, "date", "", "Anchor date in YYYY-MM-DD format, defaults to today")
	fs.StringVar(&opts.out, "out", "", "Output file; ics defaults to studianta-calendar-<date>.ics, views default to stdout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(args []string, stdout io.Writer, now time.Time) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	anchor := utils.DateOf(now)
	if opts.date != "" {
		if anchor, err = utils.ParseDate(opts.date, now.Location()); err != nil {
			return err
		}
	}

	snap, err := loadSnapshot(opts.snapshot)
	if err != nil {
		return err
	}
	sources, err := snap.sources(now)
	if err != nil {
		return err
	}

	if opts.mode == "ics" {
		out := opts.out
		if out == "" {
			out = ics_export.Filename(ics_export.AppName, now)
		}
		if err := os.WriteFile(out, []byte(ics_export.Export(sources.Subjects, sources.Custom, now)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		log.Infof("calendar written to %s", out)
		return nil
	}

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch opts.mode {
	case "month":
		return renderMonth(w, anchor, calendar_view.BuildMonthGrid(anchor, sources, now))
	case "week":
		return renderWeek(w, calendar_view.BuildWeekColumns(anchor, sources, now))
	case "day":
		return renderDay(w, anchor, calendar_view.BuildDayFocus(anchor, sources, now))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, opts.mode)
	}
}
