package tele

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/kiosk/helpers"
	"github.com/temoto/kiosk/log2"
)

var (
	payloadOnline  = []byte("online")
	payloadOffline = []byte("offline")
)

type transportMqtt struct {
	log  *log2.Log
	m    mqtt.Client
	mopt *mqtt.ClientOptions

	mu        sync.Mutex
	lastState []byte // republished on every connect
	stopCh    chan struct{}

	topicPrefix  string
	topicConnect string
	topicState   string
	topicError   string
}

func (self *transportMqtt) Init(ctx context.Context, log *log2.Log, config Config) error {
	self.log = log
	mqtt.ERROR = log
	mqtt.CRITICAL = log
	mqtt.WARN = log
	if config.LogDebug {
		mqtt.DEBUG = log
	}
	if config.MqttBroker == "" {
		return errors.NotValidf("tele mqtt_broker empty")
	}

	self.topicPrefix = config.TopicPrefix
	self.topicConnect = fmt.Sprintf("%s/connect", self.topicPrefix)
	self.topicState = fmt.Sprintf("%s/state", self.topicPrefix)
	self.topicError = fmt.Sprintf("%s/error", self.topicPrefix)
	keepAlive := helpers.IntSecondDefault(config.KeepaliveSec, DefaultKeepalive)
	retryInterval := keepAlive / 2
	self.stopCh = make(chan struct{})

	self.mopt = mqtt.NewClientOptions().
		AddBroker(config.MqttBroker).
		SetBinaryWill(self.topicConnect, payloadOffline, 1, true).
		SetClientID(config.ClientID).
		SetCleanSession(false).
		SetKeepAlive(keepAlive).
		SetPingTimeout(keepAlive / 2).
		SetConnectTimeout(DefaultNetworkTimeout).
		SetOrderMatters(false).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(retryInterval).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler)
	if config.StorePath != "" {
		self.mopt.SetStore(mqtt.NewFileStore(config.StorePath))
	}
	self.m = mqtt.NewClient(self.mopt)

	// auto reconnect only works after first successful connect
	go func() {
		for {
			token := self.m.Connect()
			if token.Wait() && token.Error() == nil {
				return
			}
			self.log.Errorf("tele mqtt connect broker=%s err=%v", config.MqttBroker, token.Error())
			select {
			case <-self.stopCh:
				return
			case <-ctx.Done():
				return
			case <-time.After(retryInterval):
			}
		}
	}()
	return nil
}

func (self *transportMqtt) Close() {
	close(self.stopCh)
	if self.m.IsConnected() {
		self.m.Publish(self.topicConnect, 1, true, payloadOffline).WaitTimeout(DefaultNetworkTimeout)
	}
	self.m.Disconnect(250)
	self.log.Infof("tele mqtt closed")
}

func (self *transportMqtt) SendState(payload []byte) bool {
	self.mu.Lock()
	self.lastState = payload
	self.mu.Unlock()
	if !self.m.IsConnected() {
		self.log.Debugf("tele state deferred until connect")
		return false
	}
	self.log.Debugf("tele state payload=%s", payload)
	self.m.Publish(self.topicState, 1, true, payload)
	return true
}

func (self *transportMqtt) SendError(payload []byte) bool {
	if !self.m.IsConnected() {
		return false
	}
	self.m.Publish(self.topicError, 1, false, payload)
	return true
}

func (self *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("tele mqtt disconnect err=%v", err)
}

func (self *transportMqtt) onConnectHandler(c mqtt.Client) {
	self.log.Infof("tele mqtt connect")
	c.Publish(self.topicConnect, 1, true, payloadOnline)
	self.mu.Lock()
	last := self.lastState
	self.mu.Unlock()
	if last != nil {
		c.Publish(self.topicState, 1, true, last)
	}
}
