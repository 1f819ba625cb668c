package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/doitintl/hello/gcp-footprint/findings"
)

var (
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

func severityColor(s findings.Severity) func(a ...interface{}) string {
	switch s {
	case findings.SeverityCritical:
		return red
	case findings.SeverityWarning:
		return yellow
	default:
		return green
	}
}

func scoreColor(score int) func(a ...interface{}) string {
	switch {
	case score >= 80:
		return green
	case score >= 50:
		return yellow
	default:
		return red
	}
}

func printReport(w io.Writer, report *findings.Report) {
	p := message.NewPrinter(language.English)
	title := cases.Title(language.English)
	s := report.Summary

	fmt.Fprintf(w, "\n%s\n\n", cyan("=== GCP Footprint ==="))

	p.Fprintf(w, "  Health score:     %s\n", scoreColor(s.HealthScore)(fmt.Sprintf("%d/100", s.HealthScore)))
	p.Fprintf(w, "  Billing accounts: %d (%d open)\n", s.BillingAccounts, s.OpenBillingAccounts)
	p.Fprintf(w, "  Projects:         %d (%d without billing)\n", s.Projects, s.ProjectsWithoutBilling)
	p.Fprintf(w, "  API keys:         %d (%d unrestricted)\n", s.APIKeys, s.UnrestrictedAPIKeys)
	p.Fprintf(w, "  Enabled services: %d\n", s.EnabledServices)
	p.Fprintf(w, "  IAM bindings:     %d\n", s.IAMBindings)
	p.Fprintf(w, "  Service accounts: %d\n", s.ServiceAccounts)

	if s.PartialFailures > 0 {
		fmt.Fprintf(w, "  %s\n", yellow(p.Sprintf("%d fetches failed, some details are missing", s.PartialFailures)))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", yellow(p.Sprintf("Findings (%d critical, %d warnings):", s.Critical, s.Warnings)))

	if len(report.Findings) == 0 {
		fmt.Fprintf(w, "  %s\n\n", green("No findings"))
		return
	}

	for _, f := range report.Findings {
		sev := severityColor(f.Severity)
		fmt.Fprintf(w, "  %s %s\n", sev(title.String(string(f.Severity))), f.Title)
		fmt.Fprintf(w, "    %s\n", gray(f.Body))
	}

	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
