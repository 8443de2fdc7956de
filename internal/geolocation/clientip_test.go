package geolocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func headers(h map[string]string) HeaderFunc {
	return func(k string, _ ...string) string { return h[k] }
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "49.37.1.1, 10.0.0.1", "X-Real-IP": "1.1.1.1"}, "", "49.37.1.1"},
		{"real ip", map[string]string{"X-Real-IP": "1.1.1.1", "CF-Connecting-IP": "2.2.2.2"}, "", "1.1.1.1"},
		{"cloudflare", map[string]string{"CF-Connecting-IP": "2.2.2.2"}, "3.3.3.3", "2.2.2.2"},
		{"socket", map[string]string{}, "3.3.3.3", "3.3.3.3"},
		{"nothing", map[string]string{}, "", UnknownIP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClientIP(headers(tt.headers), tt.remote))
		})
	}
}

func TestIsLocalOrUnknown(t *testing.T) {
	local := []string{"", "unknown", "127.0.0.1", "::1", "192.168.0.10", "10.1.2.3", "172.16.0.1", "172.217.14.206", "not-an-ip"}
	for _, ip := range local {
		assert.True(t, IsLocalOrUnknown(ip), ip)
	}

	public := []string{"49.37.1.1", "8.8.8.8", "2401:4900:1c00::1"}
	for _, ip := range public {
		assert.False(t, IsLocalOrUnknown(ip), ip)
	}
}
