package geolocation

import (
	"net"
	"strings"
)

// UnknownIP is used when no client address can be determined
const UnknownIP = "unknown"

// localPrefixes 로컬/사설망 주소 (172.* 전체를 포함)
var localPrefixes = []string{"192.168.", "10.", "172."}

// HeaderFunc reads a request header; fiber's c.Get has this shape
type HeaderFunc func(key string, defaultValue ...string) string

// ClientIP picks the client address from proxy headers, then the socket address
func ClientIP(get HeaderFunc, remote string) string {
	if forwardedFor := get("X-Forwarded-For"); forwardedFor != "" {
		// X-Forwarded-For can carry a chain, the first hop is the client
		if first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0]); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if cfIP := strings.TrimSpace(get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}

	if remote = strings.TrimSpace(remote); remote != "" {
		return remote
	}

	return UnknownIP
}

// IsLocalOrUnknown reports whether ip should skip the IP lookup services
func IsLocalOrUnknown(ip string) bool {
	if ip == "" || ip == UnknownIP || ip == "127.0.0.1" || ip == "::1" {
		return true
	}

	for _, prefix := range localPrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}

	return net.ParseIP(ip) == nil
}
