// Package notify defines the notification sink the lifecycle engine
// reports its side effects to. Delivery itself (push, email) lives in
// another system; this service only hands events over.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

type EventKind string

const (
	EventBidInvited   EventKind = "bid_invited"
	EventBidResponded EventKind = "bid_responded"
	EventBidAccepted  EventKind = "bid_accepted"
	EventBidRejected  EventKind = "bid_rejected"
	EventBidLost      EventKind = "bid_lost"
	EventBidWithdrawn EventKind = "bid_withdrawn"
)

type Notifier interface {
	Notify(ctx context.Context, userId string, event EventKind, payload map[string]string) error
}

// LogNotifier writes events to the structured log. Used as the sink
// wherever a real delivery channel is not wired in.
type LogNotifier struct {
	Log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{Log: log}
}

func (n *LogNotifier) Notify(_ context.Context, userId string, event EventKind, payload map[string]string) error {
	n.Log.WithFields(logrus.Fields{
		"user":    userId,
		"event":   event,
		"payload": payload,
	}).Info("notification")
	return nil
}
