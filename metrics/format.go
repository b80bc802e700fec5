package metrics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mixpanel/graphite/util"
)

const (
	// HostnameTag names the tag that carries the reporting host.
	HostnameTag = "Hostname"
	// NoHostnameListed replaces the hostname whenever a tag other than HostnameTag is seen.
	NoHostnameListed = "noHostnameListed"

	nullValue = "null"
)

// ResolveHostname walks the tags in order. A Hostname tag sets the hostname and any
// other tag resets it to NoHostnameListed, so the last tag decides. Without tags the
// result is "null".
func ResolveHostname(tags []Tag) string {
	hostname := nullValue
	for _, tag := range tags {
		if tag.Name == HostnameTag {
			hostname = tag.String()
		} else {
			hostname = NoHostnameListed
		}
	}
	return hostname
}

// SanitizeHostname replaces domain separators so they don't split the Graphite path.
func SanitizeHostname(hostname string) string {
	return strings.Replace(hostname, ".", "-", -1)
}

// FormatValue renders v in its shortest exact decimal form. NaN and the infinities come
// out as "NaN", "+Inf" and "-Inf", which Graphite rejects; FormatLines skips them.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatLines renders one plaintext protocol line per metric in record:
//
//	<hostname>.<metric name>.<metric type> <value> <unix seconds>\n
//
// Graphite has no sub-second precision, so now is truncated to whole seconds. Metrics
// with a NaN or infinite value produce no line.
func FormatLines(record Record, now time.Time) []string {
	if len(record.Metrics) == 0 {
		return nil
	}

	hostname := SanitizeHostname(ResolveHostname(record.Tags))
	timestamp := strconv.FormatInt(now.Unix(), 10)

	buf := util.SharedBufferPool.Get()
	defer util.SharedBufferPool.Put(buf)

	var lines []string
	for _, metric := range record.Metrics {
		if math.IsNaN(metric.Value) || math.IsInf(metric.Value, 0) {
			continue
		}
		buf.Reset()
		// WriteString never returns an error on a bytes.Buffer
		_, _ = buf.WriteString(hostname)
		_ = buf.WriteByte('.')
		_, _ = buf.WriteString(metric.Name)
		_ = buf.WriteByte('.')
		_, _ = buf.WriteString(string(metric.Type))
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(FormatValue(metric.Value))
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(timestamp)
		_ = buf.WriteByte('\n')
		lines = append(lines, buf.String())
	}
	return lines
}
