// Package mqtt provides MQTT client connectivity for fieldsense.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Retained message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The agent is publish-only. It announces availability on connect and
// disconnect, and mirrors the local status display after every
// collection cycle so remote dashboards can show the same lines the
// device renders on its screen. There are no subscriptions; nothing on
// the broker drives the device.
//
// Topic scheme (flat, one namespace per device):
//
//	fieldsense/{client_id}/availability   retained online/offline JSON
//	fieldsense/{client_id}/status         retained status display mirror
//
// # Security Considerations
//
//   - TLS is recommended for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff per cfg.Reconnect
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.Status(cfg.MQTT.Broker.ClientID)
//	client.PublishRetained(topic, doc)
package mqtt
