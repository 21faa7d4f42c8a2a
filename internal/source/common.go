package source

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/mavumo/jobbyist/internal/network"
)

// cardLimit bounds how many cards one adapter takes from a single page.
const cardLimit = 20

func fetchDocument(ctx context.Context, client *network.Client, target string, headers map[string]string) (*goquery.Document, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	applyHeaders(req, headers)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func applyHeaders(req *fhttp.Request, headers map[string]string) {
	if headers == nil {
		headers = map[string]string{}
	}
	if _, ok := headers["accept"]; !ok {
		headers["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	}
	if _, ok := headers["accept-language"]; !ok {
		headers["accept-language"] = "en-US,en;q=0.9"
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func isRemoteText(parts ...string) bool {
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), "remote")
}

// detail-page extraction, shared by adapters that follow card links.

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)R\s*\d[\d\s,]*(?:k)?\s*[-–]\s*R?\s*\d[\d\s,]*(?:k)?`),
	regexp.MustCompile(`(?i)\d{3,}[\d\s,]*\s*[-–]\s*\d{3,}[\d\s,]*\s*k?`),
	regexp.MustCompile(`(?i)R\s*\d{3,}\s*k`),
}

// extractSalaryText scans page text for a salary figure.
func extractSalaryText(doc *goquery.Document) string {
	text := doc.Text()
	for _, pattern := range salaryPatterns {
		if m := pattern.FindString(text); m != "" {
			return cleanText(m)
		}
	}
	return ""
}

// extractDescription prefers the meta description, falling back to the first
// paragraph of the page.
func extractDescription(doc *goquery.Document) string {
	if content := cleanText(doc.Find(`meta[name="description"]`).First().AttrOr("content", "")); content != "" {
		return content
	}
	return cleanText(doc.Find("p").First().Text())
}
