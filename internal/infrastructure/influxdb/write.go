package influxdb

import (
	"context"
	"errors"
	"time"

	ihttp "github.com/influxdata/influxdb-client-go/v2/api/http"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/fieldsense/internal/telemetry"
)

// SendBatch uploads every sample in the batch as one blocking write.
//
// Each sample becomes one point with the series name as the
// measurement, the device name as a tag, and a single "value" field.
// The client joins all points into one request, so a cycle's six
// series cost one round trip.
//
// Returns:
//   - ResultOK when the write succeeds
//   - the HTTP status code when the backend rejects the write
//   - ResultSendFailed when no response was received at all
//
// An HTTP response of any status marks the link connected; only
// transport-level failures mark it down.
func (c *Client) SendBatch(ctx context.Context, batch *telemetry.Batch) telemetry.ResultCode {
	points := make([]*write.Point, 0, batch.TotalSamples())
	batch.ForEach(func(s *telemetry.Series) {
		for _, sample := range s.Samples() {
			points = append(points, write.NewPoint(
				s.Name(),
				map[string]string{"device": c.device},
				map[string]interface{}{"value": sample.Value},
				time.UnixMilli(sample.TimestampMs),
			))
		}
	})
	if len(points) == 0 {
		return telemetry.ResultOK
	}

	sendCtx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	err := c.writeAPI.WritePoint(sendCtx, points...)
	if err == nil {
		c.setConnected(true)
		return telemetry.ResultOK
	}

	// The server rejected the write but answered, so the link itself
	// is up and the status code identifies the failure.
	var httpErr *ihttp.Error
	if errors.As(err, &httpErr) && httpErr.StatusCode > 0 {
		c.setConnected(true)
		return telemetry.ResultCode(httpErr.StatusCode)
	}

	c.setConnected(false)
	return telemetry.ResultSendFailed
}
