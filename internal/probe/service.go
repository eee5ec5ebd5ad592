package probe

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/coreos/go-systemd/dbus"
	"github.com/juju/errors"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

var serviceProperties = []string{"Id", "Description", "ActiveState", "SubState", "UnitFileState", "MainPID"}

// unitBus is the part of *dbus.Conn used by Service.
type unitBus interface {
	GetUnitProperties(unit string) (map[string]interface{}, error)
	GetUnitTypeProperties(unit string, unitType string) (map[string]interface{}, error)
	Close()
}

func dialSystemBus() (unitBus, error) { return dbus.NewSystemConnection() }

// Service reads managed unit state from systemd over D-Bus,
// falls back to `systemctl show` when the bus is not reachable.
type Service struct {
	Log  *log2.Log
	Name string
	Run  Runner

	mu   sync.Mutex
	dial func() (unitBus, error)
	conn unitBus
	// set after bus connect failed, skip retry
	noBus bool
}

func NewService(log *log2.Log, name string, run Runner) *Service {
	return &Service{Log: log, Name: name, Run: run, dial: dialSystemBus}
}

func UnitName(name string) string {
	if strings.ContainsRune(name, '.') {
		return name
	}
	return name + ".service"
}

type busResult struct {
	props map[string]interface{}
	pid   interface{}
	err   error
}

// Check gives up when ctx is done. A bus call stuck past ctx drops the connection,
// next Check dials again.
func (self *Service) Check(ctx context.Context) (types.ServiceInfo, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	unit := UnitName(self.Name)
	if conn := self.connect(); conn != nil {
		resch := make(chan busResult, 1)
		go func() {
			var r busResult
			r.props, r.err = conn.GetUnitProperties(unit)
			if r.err == nil {
				if svc, err := conn.GetUnitTypeProperties(unit, "Service"); err == nil {
					r.pid = svc["MainPID"]
				}
			}
			resch <- r
		}()
		select {
		case r := <-resch:
			if r.err == nil {
				return ServiceFromProperties(self.Name, r.props, r.pid), nil
			}
			// bus may have restarted
			self.Log.Debugf("service dbus unit=%s err=%v", unit, r.err)
		case <-ctx.Done():
			self.Log.Debugf("service dbus unit=%s stuck, closing connection", unit)
			conn.Close()
			self.conn = nil
			return types.ServiceInfo{}, errors.Annotatef(ctx.Err(), "service check unit=%s dbus", unit)
		}
		conn.Close()
		self.conn = nil
	}

	if self.Run == nil {
		return types.ServiceInfo{}, errors.Errorf("service=%s no dbus and no runner", unit)
	}
	out, err := self.Run.Run(ctx, "systemctl", "show", unit, "--no-pager", "--property", strings.Join(serviceProperties, ","))
	if err != nil {
		return types.ServiceInfo{}, errors.Annotatef(err, "service check unit=%s", unit)
	}
	return ParseSystemctlShow(self.Name, out), nil
}

func (self *Service) Close() {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.conn != nil {
		self.conn.Close()
		self.conn = nil
	}
}

func (self *Service) connect() unitBus {
	if self.conn != nil || self.noBus {
		return self.conn
	}
	if self.dial == nil {
		self.dial = dialSystemBus
	}
	conn, err := self.dial()
	if err != nil {
		self.Log.Infof("service dbus unavailable, using systemctl err=%v", err)
		self.noBus = true
		return nil
	}
	self.conn = conn
	return conn
}

// ServiceFromProperties maps D-Bus unit properties, pid is Service.MainPID.
func ServiceFromProperties(name string, props map[string]interface{}, pid interface{}) types.ServiceInfo {
	str := func(key string) string {
		s, _ := props[key].(string)
		return s
	}
	info := types.ServiceInfo{
		Name:        str("Id"),
		Description: str("Description"),
		Active:      types.ParseActiveState(str("ActiveState")),
		SubState:    str("SubState"),
		Enabled:     types.ParseEnabledState(str("UnitFileState")),
	}
	switch p := pid.(type) {
	case uint32:
		info.MainPID = p
	case int:
		if p > 0 {
			info.MainPID = uint32(p)
		}
	}
	fillServiceDefaults(name, &info)
	return info
}

// ParseSystemctlShow parses `Key=Value` lines.
func ParseSystemctlShow(name string, s string) types.ServiceInfo {
	m := make(map[string]string, len(serviceProperties))
	for _, line := range strings.Split(s, "\n") {
		kv := strings.SplitN(strings.TrimSpace(line), "=", 2)
		if len(kv) == 2 {
			m[kv[0]] = kv[1]
		}
	}
	info := types.ServiceInfo{
		Name:        m["Id"],
		Description: m["Description"],
		Active:      types.ParseActiveState(m["ActiveState"]),
		SubState:    m["SubState"],
		Enabled:     types.ParseEnabledState(m["UnitFileState"]),
	}
	if pid, err := strconv.ParseUint(m["MainPID"], 10, 32); err == nil {
		info.MainPID = uint32(pid)
	}
	fillServiceDefaults(name, &info)
	return info
}

func fillServiceDefaults(name string, info *types.ServiceInfo) {
	if info.Name == "" {
		info.Name = name
	}
	if info.Description == "" {
		info.Description = "Unknown"
	}
	if info.SubState == "" {
		info.SubState = "unknown"
	}
}
