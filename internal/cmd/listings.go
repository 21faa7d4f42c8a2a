package cmd

import (
	"fmt"

	"github.com/mavumo/jobbyist/internal/listings"
)

type ListingsCmd struct {
	Show   ListingsShowCmd   `cmd:"" help:"Print a listing file."`
	Diff   ListingsDiffCmd   `cmd:"" help:"Write listings from A not present in B to JSON."`
	Update ListingsUpdateCmd `cmd:"" help:"Merge new listings into a listing file."`
}

type ListingsShowCmd struct {
	File   string `arg:"" optional:"" help:"Listing file path (default: configured data file)."`
	Format string `help:"Output format: csv, json, md." enum:",csv,json,md,table,tsv" default:""`
	Output string `name:"output" short:"o" help:"Write output to a file."`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
}

type ListingsDiffCmd struct {
	New      string `name:"new" required:"" help:"Path to fresh listings JSON file (A)."`
	Existing string `name:"existing" required:"" help:"Path to existing listings JSON file (B). Missing file is treated as empty."`
	Out      string `name:"out" required:"" help:"Output path for unseen listings JSON file."`
	DedupKey string `help:"Dedup key mode: title-company or url." enum:",title-company,url" default:""`
	Stats    bool   `name:"stats" help:"Print comparison stats."`
}

type ListingsUpdateCmd struct {
	Existing  string `name:"existing" required:"" help:"Path to existing listings JSON file. Missing file is treated as empty."`
	Input     string `name:"input" required:"" help:"Path to input listings JSON file to merge in."`
	Out       string `name:"out" required:"" help:"Output path for the merged listings JSON."`
	Retention int    `help:"Maximum listings to retain."`
	DedupKey  string `help:"Dedup key mode: title-company or url." enum:",title-company,url" default:""`
	Stats     bool   `name:"stats" help:"Print merge stats."`
}

func (c *ListingsShowCmd) Run(ctx *Context) error {
	path := c.File
	if path == "" {
		path = ctx.Config.ListingsPath()
	}
	set, err := listings.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return writeListings(ctx, set, c.Format, c.Output, c.Links)
}

func (c *ListingsDiffCmd) Run(ctx *Context) error {
	mode, err := resolveKeyMode(ctx, c.DedupKey)
	if err != nil {
		return err
	}

	fresh, err := listings.Read(c.New)
	if err != nil {
		return fmt.Errorf("read --new: %w", err)
	}
	existing, err := listings.ReadAllowMissing(c.Existing)
	if err != nil {
		return fmt.Errorf("read --existing: %w", err)
	}

	unseen, stats := listings.Diff(fresh, existing, mode)
	if err := listings.Write(c.Out, unseen); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if c.Stats {
		_, err := fmt.Fprintf(
			ctx.Out,
			"total_new=%d total_existing=%d invalid_skipped=%d unseen_emitted=%d\n",
			stats.TotalNew,
			stats.TotalExisting,
			stats.Invalid,
			stats.Unseen,
		)
		return err
	}

	return nil
}

func (c *ListingsUpdateCmd) Run(ctx *Context) error {
	mode, err := resolveKeyMode(ctx, c.DedupKey)
	if err != nil {
		return err
	}

	existing, err := listings.ReadAllowMissing(c.Existing)
	if err != nil {
		return fmt.Errorf("read --existing: %w", err)
	}
	input, err := listings.Read(c.Input)
	if err != nil {
		return fmt.Errorf("read --input: %w", err)
	}

	merged, stats := listings.Merge(existing, input, defaultInt(c.Retention, ctx.Config.Retention), mode)
	if err := listings.Write(c.Out, merged); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if c.Stats {
		_, err := fmt.Fprintf(
			ctx.Out,
			"total_existing=%d total_input=%d invalid_skipped=%d duplicates=%d added=%d truncated=%d total_out=%d\n",
			stats.TotalExisting,
			stats.TotalNew,
			stats.InvalidSkipped(),
			stats.Duplicate,
			stats.Added,
			stats.Truncated,
			stats.TotalOut,
		)
		return err
	}

	return nil
}

func resolveKeyMode(ctx *Context, value string) (listings.KeyMode, error) {
	return listings.ParseKeyMode(firstNonEmpty(value, ctx.Config.DedupKey))
}
