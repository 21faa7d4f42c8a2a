package cmd

import (
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mavumo/jobbyist/internal/export"
	"github.com/mavumo/jobbyist/internal/listings"
	"github.com/mavumo/jobbyist/internal/models"
	"github.com/mavumo/jobbyist/internal/pipeline"
)

func TestResolveFormatRespectsGlobalFlags(t *testing.T) {
	ctx := &Context{Out: io.Discard, JSONOutput: true}
	got, err := resolveFormat(ctx, "", "jobs.json")
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatJSON {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatJSON)
	}

	ctx = &Context{Out: io.Discard, PlainText: true}
	got, err = resolveFormat(ctx, "", "jobs.tsv")
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatTSV {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatTSV)
	}
}

func TestResolveFormatDefaultsToCSVForFiles(t *testing.T) {
	ctx := &Context{Out: io.Discard}
	got, err := resolveFormat(ctx, "", "out.csv")
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatCSV {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatCSV)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("za, ng , ,ke")
	want := []string{"za", "ng", "ke"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitList() = %#v, want %#v", got, want)
	}

	if got := splitList(""); len(got) != 0 {
		t.Fatalf("splitList(\"\") = %#v, want empty", got)
	}
}

func TestFormatRunSummary(t *testing.T) {
	summary := pipeline.Summary{
		Fetched:        12,
		FilteredOut:    3,
		DroppedInvalid: 1,
		DedupedOut:     2,
		Added:          6,
		Total:          40,
		Failures:       []pipeline.SourceFailure{{Site: "pnet", Locale: "za"}},
	}

	got := formatRunSummary(summary)
	want := "summary: fetched=12 filtered_out=3 dropped_invalid=1 deduped_out=2 added=6 total=40 failures=1"
	if got != want {
		t.Fatalf("formatRunSummary() = %q, want %q", got, want)
	}
}

func TestListingsUpdateCmdMergesFiles(t *testing.T) {
	dir := t.TempDir()
	existingPath := filepath.Join(dir, "existing.json")
	inputPath := filepath.Join(dir, "input.json")
	outPath := filepath.Join(dir, "out.json")

	posted := models.NewDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	existing := []models.Listing{
		{Source: "careers24", Title: "Backend Engineer", Company: "Acme", DatePosted: posted},
	}
	input := []models.Listing{
		{Source: "pnet", Title: "Backend Engineer", Company: "Acme", DatePosted: posted},
		{Source: "pnet", Title: "Data Analyst", Company: "Globex", DatePosted: posted},
	}

	if err := listings.Write(existingPath, existing); err != nil {
		t.Fatalf("Write(existing) error = %v", err)
	}
	if err := listings.Write(inputPath, input); err != nil {
		t.Fatalf("Write(input) error = %v", err)
	}

	cmd := &ListingsUpdateCmd{Existing: existingPath, Input: inputPath, Out: outPath}
	ctx := &Context{Out: io.Discard, Err: io.Discard}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	merged, err := listings.Read(outPath)
	if err != nil {
		t.Fatalf("Read(out) error = %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	for _, l := range merged {
		if l.Title == "Backend Engineer" && l.Source != "careers24" {
			t.Fatalf("existing record lost collision: source = %q", l.Source)
		}
	}
}

func TestListingsDiffCmdEmitsUnseen(t *testing.T) {
	dir := t.TempDir()
	newPath := filepath.Join(dir, "new.json")
	existingPath := filepath.Join(dir, "existing.json")
	outPath := filepath.Join(dir, "out.json")

	fresh := []models.Listing{
		{Source: "careers24", Title: "Backend Engineer", Company: "Acme"},
		{Source: "careers24", Title: "Data Analyst", Company: "Globex"},
	}
	if err := listings.Write(newPath, fresh); err != nil {
		t.Fatalf("Write(new) error = %v", err)
	}
	if err := listings.Write(existingPath, fresh[:1]); err != nil {
		t.Fatalf("Write(existing) error = %v", err)
	}

	var out strings.Builder
	cmd := &ListingsDiffCmd{New: newPath, Existing: existingPath, Out: outPath, Stats: true}
	ctx := &Context{Out: &out, Err: io.Discard}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	unseen, err := listings.Read(outPath)
	if err != nil {
		t.Fatalf("Read(out) error = %v", err)
	}
	if len(unseen) != 1 || unseen[0].Title != "Data Analyst" {
		t.Fatalf("unexpected unseen set: %#v", unseen)
	}
	if !strings.Contains(out.String(), "unseen_emitted=1") {
		t.Fatalf("unexpected stats line: %q", out.String())
	}
}
