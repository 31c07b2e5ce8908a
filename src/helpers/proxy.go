package helpers

import (
	"net/url"
	"strings"
	"sync"

	"mms-curvature/src/logger"
)

const defaultUserAgent = "mms-curvature/1.0 (Go-http-client/1.1)"

// -----------------------------------------------------------------------------

// ProxyManager cycles through the outbound proxies configured for archive
// mirror downloads.
type ProxyManager struct {
	proxies   []string
	current   int
	userAgent string
	mu        sync.Mutex
	logger    *logger.Logger
}

// -----------------------------------------------------------------------------

// NewProxyManager keeps the proxies that parse, adding http:// where the
// scheme is missing. An empty userAgent selects the default one.
func NewProxyManager(proxies []string, userAgent string, log *logger.Logger) *ProxyManager {
	pm := &ProxyManager{
		userAgent: userAgent,
		logger:    log.Named("ProxyManager"),
	}
	if pm.userAgent == "" {
		pm.userAgent = defaultUserAgent
	}

	for _, p := range proxies {
		formatted := FormatProxy(p)
		if !ValidateProxy(formatted) {
			pm.logger.Warning("Ignoring invalid proxy %q", p)
			continue
		}
		pm.proxies = append(pm.proxies, formatted)
	}
	return pm
}

// -----------------------------------------------------------------------------

// GetCurrentProxy returns "" when no proxy is configured.
func (pm *ProxyManager) GetCurrentProxy() (string, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if len(pm.proxies) == 0 {
		return "", nil
	}
	return pm.proxies[pm.current], nil
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) RotateProxy() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if len(pm.proxies) < 2 {
		return
	}
	pm.current = (pm.current + 1) % len(pm.proxies)
	pm.logger.Info("Switching to proxy %s", pm.proxies[pm.current])
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) GetUserAgent() string {
	return pm.userAgent
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) HasProxies() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.proxies) > 0
}

// -----------------------------------------------------------------------------

// ValidateProxy accepts http, https and socks5 proxy URLs with a host.
func ValidateProxy(proxyStr string) bool {
	u, err := url.Parse(proxyStr)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "http", "https", "socks5":
		return true
	}
	return false
}

// -----------------------------------------------------------------------------

// FormatProxy defaults a bare host:port to http.
func FormatProxy(proxyStr string) string {
	proxyStr = strings.TrimSpace(proxyStr)
	if strings.Contains(proxyStr, "://") {
		return proxyStr
	}
	return "http://" + proxyStr
}
