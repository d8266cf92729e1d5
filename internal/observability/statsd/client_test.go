package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" http/request ": "http_request",
		"cache..lookup":  "cache.lookup",
		".leading.dots.": "leading.dots",
		"two  spaces":    "two__spaces",
		"":               "",
	}
	for input, want := range tests {
		if got := normalizeName(input); got != want {
			t.Fatalf("normalizeName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestEncodeTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " doctrack "}
	local := map[string]string{"route": " /jobs ", "": "ignored", "env": "stage"}

	got := encodeTags(global, local)
	want := "|#env:stage,route:/jobs,service:doctrack"
	if got != want {
		t.Fatalf("encodeTags mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := encodeTags(nil, nil); got != "" {
		t.Fatalf("encodeTags(nil, nil) = %q, want empty", got)
	}
}

func TestNilAndDisabledClientsDropMetrics(t *testing.T) {
	t.Parallel()

	var nilClient *Client
	nilClient.Count("x", 1, nil)
	nilClient.Timing("x", time.Second, nil)
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}

	c, err := NewClient(Config{Enabled: true, Address: "   "})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.Enabled() {
		t.Fatal("client without address should be disabled")
	}
	c.Count("x", 1, nil)
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	if err == nil || !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("expected statsd dial error, got %v", err)
	}
}

func TestClientSendsDatagrams(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("udp listen unavailable: %v", err)
	}
	defer pc.Close()

	c, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     ".doctrack.",
		GlobalTags: map[string]string{"env": "test"},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()
	if !c.Enabled() {
		t.Fatal("expected enabled client")
	}

	c.Count("http.requests", 1, map[string]string{"status": "200"})
	c.Timing("http.duration", 1500*time.Microsecond, nil)

	want := []string{
		"doctrack.http.requests:1|c|#env:test,status:200",
		"doctrack.http.duration:1.5|ms|#env:test",
	}
	buf := make([]byte, 512)
	for _, w := range want {
		_ = pc.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			t.Fatalf("read datagram: %v", err)
		}
		if got := string(buf[:n]); got != w {
			t.Fatalf("datagram = %q, want %q", got, w)
		}
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if c.Enabled() {
		t.Fatal("expected disabled after Close")
	}
}
