package helpers

import (
	"io"
	"testing"

	"mms-curvature/src/logger"
)

func TestProxyManagerRotation(t *testing.T) {
	log := logger.NewLoggerWithWriter(io.Discard, "error", "test")
	pm := NewProxyManager([]string{"10.0.0.1:3128", "https://10.0.0.2:443", "::bad"}, "", log)

	if !pm.HasProxies() {
		t.Fatal("expected proxies")
	}
	first, _ := pm.GetCurrentProxy()
	if first != "http://10.0.0.1:3128" {
		t.Fatalf("first proxy = %q", first)
	}
	pm.RotateProxy()
	second, _ := pm.GetCurrentProxy()
	if second != "https://10.0.0.2:443" {
		t.Fatalf("second proxy = %q", second)
	}
	pm.RotateProxy()
	if again, _ := pm.GetCurrentProxy(); again != first {
		t.Fatalf("rotation did not wrap: %q", again)
	}
}

func TestProxyManagerUserAgentOverride(t *testing.T) {
	log := logger.NewLoggerWithWriter(io.Discard, "error", "test")
	if ua := NewProxyManager(nil, "", log).GetUserAgent(); ua != defaultUserAgent {
		t.Errorf("default UA = %q", ua)
	}
	if ua := NewProxyManager(nil, "sdc-mirror/2", log).GetUserAgent(); ua != "sdc-mirror/2" {
		t.Errorf("override UA = %q", ua)
	}
}
