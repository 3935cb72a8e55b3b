package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mfinn/callmodel/internal/callmodel"
	"github.com/mfinn/callmodel/internal/publisher"
)

// mqttBridge republishes call events as JSON. One topic per call:
//
//	<prefix>/call/<id>/incoming      ringing call announced
//	<prefix>/call/<id>/state         retained latest state
//	<prefix>/call/<id>/disconnected  terminal state and cause
//	<prefix>/call/<id>/postdial      post-dial progress
//
// The bridge runs on the engine's fan-out path, which the daemon drives
// from the single AMI goroutine, so publishing inline is the same
// ordering guarantee the engine itself gives.
type mqttBridge struct {
	ctx    context.Context
	pub    publisher.Publisher
	prefix string
	log    *zap.Logger
}

func newMQTTBridge(ctx context.Context, pub publisher.Publisher, prefix string, log *zap.Logger) *mqttBridge {
	return &mqttBridge{ctx: ctx, pub: pub, prefix: prefix, log: log}
}

type callPayload struct {
	Event        string   `json:"event"`
	CallID       int      `json:"call_id"`
	State        string   `json:"state"`
	Cause        string   `json:"cause,omitempty"`
	Number       string   `json:"number,omitempty"`
	CnapName     string   `json:"cnap_name,omitempty"`
	Children     []int    `json:"child_call_ids,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	ConnectTime  string   `json:"connect_time,omitempty"`
	Timestamp    string   `json:"timestamp"`
}

type postDialPayload struct {
	Event     string `json:"event"`
	CallID    int    `json:"call_id"`
	State     string `json:"state"`
	Remaining string `json:"remaining,omitempty"`
	Char      string `json:"char,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (b *mqttBridge) OnCallEvent(ev callmodel.Event) {
	switch ev.Kind {
	case callmodel.EventIncoming:
		b.publishCall("incoming", ev.Call, false)
	case callmodel.EventDisconnected:
		b.publishCall("disconnected", ev.Call, false)
		b.clearRetainedState(ev.Call.ID)
	case callmodel.EventUpdated:
		for _, call := range ev.Calls {
			if call.State == callmodel.StateIdle {
				// Terminal retirement without a disconnect (orphan or
				// dissolved conference). Drop the retained state rather
				// than retaining a dead call.
				b.clearRetainedState(call.ID)
				continue
			}
			b.publishCall("state", call, true)
		}
	case callmodel.EventPostDial:
		b.publishPostDial(ev.PostDial)
	}
}

func (b *mqttBridge) publishCall(leaf string, call *callmodel.Call, retain bool) {
	payload := callPayload{
		Event:        leaf,
		CallID:       call.ID,
		State:        call.State.String(),
		Number:       call.Number,
		CnapName:     call.CnapName,
		Children:     call.ChildIDs,
		Capabilities: call.Capabilities.Names(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	if call.State == callmodel.StateDisconnected {
		payload.Cause = call.Cause.String()
	}
	if !call.ConnectTime.IsZero() {
		payload.ConnectTime = call.ConnectTime.UTC().Format(time.RFC3339)
	}
	b.publish(fmt.Sprintf("%s/call/%d/%s", b.prefix, call.ID, leaf), payload, retain)
}

func (b *mqttBridge) publishPostDial(info *callmodel.PostDialInfo) {
	payload := postDialPayload{
		Event:     "postdial",
		CallID:    info.CallID,
		State:     info.State.String(),
		Remaining: info.Remaining,
		Char:      string(info.Char),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b.publish(fmt.Sprintf("%s/call/%d/postdial", b.prefix, info.CallID), payload, false)
}

// clearRetainedState deletes the retained state topic for a finished
// call. An empty retained payload removes the message from the broker,
// so late subscribers never see calls that ended before they connected.
func (b *mqttBridge) clearRetainedState(id int) {
	topic := fmt.Sprintf("%s/call/%d/state", b.prefix, id)
	if err := b.pub.Publish(b.ctx, topic, nil, true); err != nil {
		b.log.Error("publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

func (b *mqttBridge) publish(topic string, payload any, retain bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.Error("marshaling payload", zap.Error(err))
		return
	}
	if err := b.pub.Publish(b.ctx, topic, data, retain); err != nil {
		b.log.Error("publish failed", zap.String("topic", topic), zap.Error(err))
	}
}
