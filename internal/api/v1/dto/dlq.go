package dto

import "time"

// PubSubPushRequest is the envelope Pub/Sub posts to a push subscription.
type PubSubPushRequest struct {
	Message         PubSubMessage `json:"message"`
	Subscription    string        `json:"subscription"`
	DeliveryAttempt int           `json:"deliveryAttempt,omitempty" doc:"Set when the subscription has a dead-letter policy"`
}

type PubSubMessage struct {
	Data        string            `json:"data" doc:"Base64-encoded payload"`
	MessageID   string            `json:"messageId"`
	PublishTime time.Time         `json:"publishTime,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}
