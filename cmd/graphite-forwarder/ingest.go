package main

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"github.com/mixpanel/graphite/metrics"
	"github.com/mixpanel/graphite/obserr"
)

// ingest forwards one "name value" line as a gauge. A third field, as in a
// plaintext graphite line, is accepted and ignored: lines are stamped at send time.
func ingest(r metrics.Receiver, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if len(fields) < 2 || len(fields) > 3 {
		return obserr.New("malformed input line").Set("line", line)
	}

	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return obserr.Annotate(err, "parsing metric value").Set("line", line)
	}
	r.SetGauge(fields[0], value)
	return nil
}

// readLines feeds scanner's lines to the returned channel, which is closed at EOF.
func readLines(ctx context.Context, scanner *bufio.Scanner) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
