// Package tele publishes kiosk status snapshots to MQTT broker.
package tele

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

const (
	DefaultKeepalive      = 60 * time.Second
	DefaultNetworkTimeout = 30 * time.Second
)

type Config struct {
	Enabled      bool
	MqttBroker   string
	ClientID     string
	TopicPrefix  string
	KeepaliveSec int
	StorePath    string
	LogDebug     bool
}

type errorMessage struct {
	Time    int64  `json:"time"`
	Message string `json:"message"`
}

// Tele contract:
// - Init fails only with invalid config, network issues are logged
// - State and Error never block on network
// - State publishes only when snapshot differs from previous one
// - disabled Tele accepts all calls and does nothing
type Tele struct {
	config    Config
	log       *log2.Log
	transport Transporter

	mu        sync.Mutex
	lastState []byte
	sent      uint32
}

func New() *Tele { return &Tele{} }
func NewWithTransporter(trans Transporter) *Tele {
	return &Tele{transport: trans}
}

func (self *Tele) Init(ctx context.Context, log *log2.Log, config Config) error {
	self.config = config
	self.log = log
	if self.config.LogDebug {
		self.log = log.Clone(log2.LDebug)
	}
	if !self.config.Enabled {
		return nil
	}

	// test code sets .transport
	if self.transport == nil { // production path
		self.transport = &transportMqtt{}
	}
	if err := self.transport.Init(ctx, self.log, config); err != nil {
		self.transport = nil
		return errors.Annotate(err, "tele transport")
	}
	return nil
}

func (self *Tele) Enabled() bool { return self != nil && self.transport != nil }

func (self *Tele) Close() {
	if !self.Enabled() {
		return
	}
	self.transport.Close()
}

// State is safe to call from tick goroutine on every change.
func (self *Tele) State(s types.SystemState) {
	if !self.Enabled() {
		return
	}
	payload, err := json.Marshal(s)
	if err != nil {
		self.log.Errorf("CRITICAL tele state marshal err=%v", err)
		return
	}
	self.mu.Lock()
	same := bytes.Equal(payload, self.lastState)
	if !same {
		self.lastState = payload
		self.sent++
	}
	self.mu.Unlock()
	if same {
		return
	}
	self.transport.SendState(payload)
}

// Error is meant for log2.SetErrorFunc.
func (self *Tele) Error(err error) {
	if !self.Enabled() || err == nil {
		return
	}
	payload, _ := json.Marshal(errorMessage{Time: time.Now().Unix(), Message: err.Error()})
	self.transport.SendError(payload)
}

// StateCount returns number of distinct snapshots passed to transport.
func (self *Tele) StateCount() uint32 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.sent
}
