package tele

import (
	"context"

	"github.com/temoto/kiosk/log2"
)

// Transporter delivers payloads, network problems are logged and never returned.
type Transporter interface {
	Init(ctx context.Context, log *log2.Log, config Config) error
	SendState(payload []byte) bool
	SendError(payload []byte) bool
	Close()
}
