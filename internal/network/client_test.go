package network

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestUserAgentConcurrentUse(t *testing.T) {
	pool := make(map[string]struct{}, len(userAgents))
	for _, ua := range userAgents {
		pool[ua] = struct{}{}
	}

	var wg sync.WaitGroup
	picks := make([]string, 32)
	for i := range picks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			picks[i] = userAgent()
		}(i)
	}
	wg.Wait()

	for i, ua := range picks {
		if _, ok := pool[ua]; !ok {
			t.Fatalf("picks[%d] = %q, not in the user agent pool", i, ua)
		}
	}
}

func TestRotatorConcurrentNextAndReport(t *testing.T) {
	rotator, err := NewRotator([]string{
		"http://proxy-a:8080",
		"http://proxy-b:8080",
	}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			proxy, err := rotator.Next()
			if err != nil {
				// Concurrent bans can empty the pool.
				if !errors.Is(err, ErrNoProxies) {
					t.Errorf("Next() error = %v", err)
				}
				return
			}
			rotator.Report(proxy, 429)
		}()
	}
	wg.Wait()
}

func TestClientNextProxyWithoutRotator(t *testing.T) {
	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if proxy := client.nextProxy(); proxy != nil {
		t.Fatalf("nextProxy() = %v, want nil without a rotator", proxy)
	}
}
