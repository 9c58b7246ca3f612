package natsgath

import (
	"encoding/json"
	"log/slog"
)

func (s *natsGatherer) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal nats message", "error", err)
		return
	}

	if err := s.nc.Publish(s.subject, b); err != nil {
		slog.Error("failed to publish message to nats", "error", err)
	}
}
