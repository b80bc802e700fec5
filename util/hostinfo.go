package util

import (
	"os"
	"strings"
)

// HostInfo describes the machine metrics are reported from.
type HostInfo struct {
	Hostname  string
	ShortName string
	Domain    string
}

// GetHostInfo splits a hostname into its first label and the remaining domain.
// It returns nil for an empty hostname.
func GetHostInfo(hostname string) *HostInfo {
	hostname = strings.TrimSuffix(strings.TrimSpace(hostname), ".")
	if hostname == "" {
		return nil
	}

	info := &HostInfo{Hostname: hostname, ShortName: hostname}
	if idx := strings.IndexByte(hostname, '.'); idx > 0 {
		info.ShortName = hostname[:idx]
		info.Domain = hostname[idx+1:]
	}
	return info
}

// LocalHostInfo looks up the local hostname. The error from os.Hostname is returned
// unchanged; an empty hostname yields a nil HostInfo and no error.
func LocalHostInfo() (*HostInfo, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, err
	}
	return GetHostInfo(hostname), nil
}

func (info HostInfo) Map() map[string]interface{} {
	result := make(map[string]interface{}, 3)
	result["hostname"] = info.Hostname
	result["short_hostname"] = info.ShortName

	if len(info.Domain) > 0 {
		result["domain"] = info.Domain
	}
	return result
}
