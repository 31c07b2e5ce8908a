package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"mms-curvature/src/helpers"
	"mms-curvature/src/interfaces"
	"mms-curvature/src/logger"
	"mms-curvature/src/models"
)

// ErrNotFound is returned for a 404 response; it is not retried.
var ErrNotFound = errors.New("resource not found")

type AsyncNetworkManager struct {
	Config       *models.MConfig
	ProxyManager interfaces.IProxyManager
	Client       *http.Client
	Logger       *logger.Logger
	BaseDelay    time.Duration
}

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg *models.MConfig, log *logger.Logger) *AsyncNetworkManager {
	var proxies []string
	if cfg.Network.Enabled {
		proxies = cfg.Network.Proxies
	}

	nm := &AsyncNetworkManager{
		Config:       cfg,
		ProxyManager: helpers.NewProxyManager(proxies, cfg.Network.UserAgent, log),
		Logger:       log.Named("Network"),
		BaseDelay:    time.Second,
	}
	nm.Client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

// createClient builds a client routed through the current proxy, if any.
func (nm *AsyncNetworkManager) createClient() *http.Client {
	client := &http.Client{
		Timeout: time.Duration(nm.Config.Network.RequestTimeout) * time.Second,
	}

	proxyStr, err := nm.ProxyManager.GetCurrentProxy()
	if err != nil || proxyStr == "" {
		return client
	}
	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		nm.Logger.Warning("Unusable proxy %s: %v", proxyStr, err)
		return client
	}
	client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	return client
}

// -----------------------------------------------------------------------------

// rotateProxy moves to the next proxy before a retry.
func (nm *AsyncNetworkManager) rotateProxy() {
	if nm.ProxyManager.HasProxies() {
		nm.ProxyManager.RotateProxy()
		nm.Client = nm.createClient()
	}
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries and proxy rotation.
func (nm *AsyncNetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	reqUrl.RawQuery = q.Encode()
	finalUrl := reqUrl.String()

	attempt := 0
	body, err := helpers.RetryWithBackoff(ctx, nm.Logger, "fetch "+finalUrl, nm.Config.Network.MaxRetries, nm.BaseDelay, func() ([]byte, error) {
		if attempt > 0 {
			nm.rotateProxy()
		}
		attempt++

		body, err := nm.fetchOnce(ctx, finalUrl)
		if errors.Is(err, ErrNotFound) {
			return nil, helpers.Permanent(err)
		}
		return body, err
	})
	return body, err
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) fetchOnce(ctx context.Context, finalUrl string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())

	resp, err := nm.Client.Do(req)
	if err != nil {
		nm.Logger.Debug("Request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", finalUrl, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("blocked (status %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

