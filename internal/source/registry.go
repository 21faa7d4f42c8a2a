package source

import (
	"strings"

	"github.com/mavumo/jobbyist/internal/network"
)

const (
	SiteCareers24 = "careers24"
	SitePNet      = "pnet"
	SiteIndeed    = "indeed"
)

// Registry builds one adapter per supported board, each with its own client
// so cookie jars and proxies are not shared across sites. details controls
// whether boards that support it follow card links for full descriptions.
func Registry(rotator *network.Rotator, details bool) (map[string]Source, error) {
	careers24Client, err := network.NewClient(rotator)
	if err != nil {
		return nil, err
	}
	pnetClient, err := network.NewClient(rotator)
	if err != nil {
		return nil, err
	}
	indeedClient, err := network.NewClient(rotator)
	if err != nil {
		return nil, err
	}

	return map[string]Source{
		SiteCareers24: NewCareers24(careers24Client, details),
		SitePNet:      NewPNet(pnetClient),
		SiteIndeed:    NewIndeed(indeedClient),
	}, nil
}

// NormalizeSites lowercases and trims requested site names.
func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		site = strings.TrimPrefix(site, "www.")
		out = append(out, site)
	}
	return out
}
