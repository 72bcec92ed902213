package tsdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nerrad567/fieldsense/internal/telemetry"
)

// SendBatch uploads every sample in the batch as one HTTP POST.
//
// Each sample becomes one line of InfluxDB line protocol with the
// series name as the measurement and the device name as a tag:
//
//	temperature,device=handheld-01 value=22.5 1700000000000000000
//
// The whole batch is newline-joined into a single request body, so a
// cycle's six series cost one round trip.
//
// Returns:
//   - ResultOK on any 2xx response
//   - the HTTP status code when the backend rejects the write
//   - ResultSendFailed when no response was received at all
//
// An HTTP response of any status marks the link connected; only
// transport-level failures mark it down.
func (c *Client) SendBatch(ctx context.Context, batch *telemetry.Batch) telemetry.ResultCode {
	lines := make([]string, 0, batch.TotalSamples())
	batch.ForEach(func(s *telemetry.Series) {
		for _, sample := range s.Samples() {
			lines = append(lines, formatLine(s.Name(), c.device, sample))
		}
	})
	if len(lines) == 0 {
		return telemetry.ResultOK
	}

	body := strings.Join(lines, "\n")

	sendCtx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, c.url+"/write", strings.NewReader(body))
	if err != nil {
		c.setConnected(false)
		return telemetry.ResultSendFailed
	}
	req.Header.Set("Content-Type", "text/plain")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setConnected(false)
		return telemetry.ResultSendFailed
	}
	defer resp.Body.Close()
	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	// The backend answered, so the link itself is up even if the
	// write was rejected.
	c.setConnected(true)

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return telemetry.ResultOK
	}
	return telemetry.ResultCode(resp.StatusCode)
}

// formatLine formats one sample as an InfluxDB line protocol string.
//
// Format: measurement,device=name value=X timestamp_ns
//
// VictoriaMetrics accepts this format on the /write endpoint. The
// sample timestamp is carried in milliseconds and converted to the
// nanoseconds line protocol expects.
func formatLine(series, device string, sample telemetry.Sample) string {
	var b strings.Builder

	b.WriteString(escapeMeasurement(series))
	b.WriteString(",device=")
	b.WriteString(escapeTag(device))
	b.WriteString(" value=")
	b.WriteString(fmt.Sprintf("%g", sample.Value))
	b.WriteByte(' ')
	b.WriteString(fmt.Sprintf("%d", sample.TimestampMs*int64(time.Millisecond)))

	return b.String()
}

// escapeTag escapes special characters in tag keys/values per line protocol spec.
// Commas, equals signs, and spaces must be backslash-escaped.
// Newlines are stripped to prevent line protocol injection.
func escapeTag(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, " ", "\\ ")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "=", "\\=")
	return s
}

// escapeMeasurement escapes special characters in measurement names.
// Newlines are stripped to prevent line protocol injection.
func escapeMeasurement(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, " ", "\\ ")
	s = strings.ReplaceAll(s, ",", "\\,")
	return s
}
