package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/mavumo/jobbyist/internal/models"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func WriteListings(w io.Writer, listings []models.Listing, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, listings)
	case FormatCSV:
		return writeCSV(w, listings, ',')
	case FormatTSV:
		return writeCSV(w, listings, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, listings)
	default:
		return writeTable(w, listings, opts)
	}
}

func writeJSON(w io.Writer, listings []models.Listing) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}

func writeCSV(w io.Writer, listings []models.Listing, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, listing := range listings {
		if err := writer.Write(csvRow(listing)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, listings []models.Listing, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, listing := range listings {
		fmt.Fprintln(tw, strings.Join(tableRow(listing, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, listings []models.Listing) error {
	if len(listings) == 0 {
		_, err := fmt.Fprintln(w, "No listings.")
		return err
	}
	for _, listing := range listings {
		linkLine := "  Link: -"
		if link := safe(listing.Link); link != "" {
			linkLine = fmt.Sprintf("  Link: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(listing.Title), safe(listing.Company)),
			fmt.Sprintf("  Location: %s", safe(listing.Location.Text)),
			fmt.Sprintf("  Source: %s", safe(listing.Source)),
			linkLine,
		}
		if listing.Remote {
			lines = append(lines, "  Remote: yes")
		}
		if listing.EmploymentType != "" {
			lines = append(lines, fmt.Sprintf("  Type: %s", safe(listing.EmploymentType)))
		}
		if listing.BaseSalary.Text != "" {
			lines = append(lines, fmt.Sprintf("  Salary: %s", safe(listing.BaseSalary.Text)))
		}
		if !listing.DatePosted.IsZero() {
			lines = append(lines, fmt.Sprintf("  Posted: %s", listing.DatePosted.String()))
		}
		if listing.Description != "" {
			lines = append(lines, fmt.Sprintf("  Summary: %s", safe(listing.Description)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"source",
		"title",
		"company",
		"location",
		"link",
		"remote",
		"employment_type",
		"salary",
		"industry",
		"date_posted",
		"valid_through",
	}
}

func csvRow(listing models.Listing) []string {
	posted := ""
	if !listing.DatePosted.IsZero() {
		posted = listing.DatePosted.String()
	}
	validThrough := ""
	if !listing.ValidThrough.IsZero() {
		validThrough = listing.ValidThrough.String()
	}
	return []string{
		listing.Source,
		listing.Title,
		listing.Company,
		listing.Location.Text,
		listing.Link,
		boolString(listing.Remote),
		listing.EmploymentType,
		listing.BaseSalary.Text,
		listing.Industry,
		posted,
		validThrough,
	}
}

func boolString(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"source",
		"posted",
		"title",
		"company",
		"link",
	}
}

func tableRow(listing models.Listing, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	link := safe(listing.Link)
	displayLink := "-"
	if link != "" {
		displayLink = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayLink = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayLink = output.String(displayLink).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayLink = hyperlink(link, displayLink)
		}
	}
	posted := "-"
	if !listing.DatePosted.IsZero() {
		posted = listing.DatePosted.String()
	}
	return []string{
		safe(listing.Source),
		posted,
		safe(listing.Title),
		safe(listing.Company),
		displayLink,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
