// Package network wraps the TLS-fingerprinting HTTP client the source
// adapters fetch through, with user-agent rotation and optional proxy
// rotation.
package network

import (
	"errors"
	"math/rand"
	"net/url"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

var ErrRequestFailed = errors.New("request failed")

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// userAgent picks a browser UA. The top-level rand functions are safe for
// concurrent use.
func userAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// Client is a shared HTTP client for one source adapter. One adapter serves
// every locale, so a Client sees concurrent Do calls.
type Client struct {
	mu      sync.Mutex
	http    tls_client.HttpClient
	rotator *Rotator
}

// NewClient builds a browser-profile HTTP client. rotator may be nil when no
// proxies are configured.
func NewClient(rotator *Rotator) (*Client, error) {
	jar, _ := fhttpcookiejar.New(nil)

	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(30),
		tls_client.WithCookieJar(jar),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:    client,
		rotator: rotator,
	}, nil
}

// Do sends the request through the next healthy proxy (if any), filling in a
// browser user agent when the caller did not set one. The mutex is held for
// the whole exchange: the proxy is client-level state and must not change
// while a request is in flight.
func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	proxy := c.nextProxy()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if proxy != nil {
		c.rotator.Report(proxy, resp.StatusCode)
	}
	return resp, nil
}

// nextProxy is called with c.mu held.
func (c *Client) nextProxy() *url.URL {
	if c.rotator == nil {
		return nil
	}
	proxy, err := c.rotator.Next()
	if err != nil || proxy == nil {
		return nil
	}
	_ = c.http.SetProxy(proxy.String())
	return proxy
}
