package state

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/kiosk/helpers"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

// EnvScreens overrides ui.screens, comma separated names.
const EnvScreens = "AMARU_PI_SCREENS"

var DefaultScreens = []string{"logo", "tip", "status", "logs", "scan", "info", "wifi"}

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Hardware struct {
		Input struct {
			Gpio struct {
				Enable bool   `hcl:"enable"`
				Chip   string `hcl:"chip"`
				PinA   int    `hcl:"pin_a"`
				PinB   int    `hcl:"pin_b"`
				PinX   int    `hcl:"pin_x"`
				PinY   int    `hcl:"pin_y"`
			} `hcl:"gpio"`
			DevInputEvent struct {
				Enable bool   `hcl:"enable"`
				Device string `hcl:"device"`
				KeyA   int    `hcl:"key_a"`
				KeyB   int    `hcl:"key_b"`
				KeyX   int    `hcl:"key_x"`
				KeyY   int    `hcl:"key_y"`
			} `hcl:"dev_input_event"`
			SampleMs int `hcl:"sample_ms"`
		} `hcl:"input"`
		Display struct {
			Device string `hcl:"device"`
			Width  int    `hcl:"width"`
			Height int    `hcl:"height"`
		} `hcl:"display"`
	} `hcl:"hardware"`

	UI struct {
		Screens []string `hcl:"screens"`
		TickMs  int      `hcl:"tick_ms"`
		LogoSec int      `hcl:"logo_sec"`
		Title   string   `hcl:"title"`
		ScanURL string   `hcl:"scan_url"`
	} `hcl:"ui"`

	Probe struct {
		NetworkIntervalSec int `hcl:"network_interval_sec"`
		HostIntervalSec    int `hcl:"host_interval_sec"`
		Journal            struct {
			IntervalSec int `hcl:"interval_sec"`
		} `hcl:"journal"`
		Service struct {
			Name        string `hcl:"name"`
			IntervalSec int    `hcl:"interval_sec"`
		} `hcl:"service"`
		Update struct {
			Manifest    string `hcl:"manifest"`
			Trigger     string `hcl:"trigger"`
			IntervalSec int    `hcl:"interval_sec"`
			SnoozeHours int    `hcl:"snooze_hours"`
		} `hcl:"update"`
		Wifi struct {
			Ifname       string `hcl:"ifname"`
			Connection   string `hcl:"connection"`
			UpTimeoutSec int    `hcl:"up_timeout_sec"`
			Sudo         bool   `hcl:"sudo"`
		} `hcl:"wifi"`
	} `hcl:"probe"`

	Tele struct {
		Enable       bool   `hcl:"enable"`
		MqttBroker   string `hcl:"mqtt_broker"`
		ClientID     string `hcl:"client_id"`
		TopicPrefix  string `hcl:"topic_prefix"`
		KeepaliveSec int    `hcl:"keepalive_sec"`
		StorePath    string `hcl:"store_path"`
		LogDebug     bool   `hcl:"log_debug"`
	} `hcl:"tele"`

	LogDebug bool `hcl:"log_debug"`

	screenOrder []types.ScreenKind

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) ScreenOrder() []types.ScreenKind { return c.screenOrder }
func (c *Config) TickPeriod() time.Duration {
	return helpers.IntMillisecondDefault(c.UI.TickMs, 40*time.Millisecond)
}
func (c *Config) SamplePeriod() time.Duration {
	return helpers.IntMillisecondDefault(c.Hardware.Input.SampleMs, 10*time.Millisecond)
}
func (c *Config) NetworkInterval() time.Duration {
	return helpers.IntSecondDefault(c.Probe.NetworkIntervalSec, 5*time.Second)
}
func (c *Config) HostInterval() time.Duration {
	return helpers.IntSecondDefault(c.Probe.HostIntervalSec, 10*time.Second)
}
func (c *Config) JournalInterval() time.Duration {
	return helpers.IntSecondDefault(c.Probe.Journal.IntervalSec, 2*time.Second)
}
func (c *Config) ServiceInterval() time.Duration {
	return helpers.IntSecondDefault(c.Probe.Service.IntervalSec, 5*time.Second)
}
func (c *Config) UpdateInterval() time.Duration {
	return helpers.IntSecondDefault(c.Probe.Update.IntervalSec, 5*time.Second)
}
func (c *Config) SnoozeDuration() time.Duration {
	return time.Duration(c.Probe.Update.SnoozeHours) * time.Hour
}
func (c *Config) WifiUpTimeout() time.Duration {
	return helpers.IntSecondDefault(c.Probe.Wifi.UpTimeoutSec, 30*time.Second)
}
func (c *Config) LogoDuration() time.Duration {
	return helpers.IntSecondDefault(c.UI.LogoSec, 5*time.Second)
}

// Validate fills defaults and checks values, env is os.Getenv or test stub.
func (c *Config) Validate(env func(string) string) error {
	errs := make([]error, 0, 4)

	in := &c.Hardware.Input
	if in.Gpio.Chip == "" {
		in.Gpio.Chip = "/dev/gpiochip0"
	}
	if in.Gpio.PinA == 0 && in.Gpio.PinB == 0 && in.Gpio.PinX == 0 && in.Gpio.PinY == 0 {
		// Pimoroni Display HAT Mini
		in.Gpio.PinA, in.Gpio.PinB, in.Gpio.PinX, in.Gpio.PinY = 5, 6, 16, 24
	}
	if in.DevInputEvent.Device == "" {
		in.DevInputEvent.Device = "/dev/input/event0"
	}
	if in.DevInputEvent.KeyA == 0 && in.DevInputEvent.KeyB == 0 && in.DevInputEvent.KeyX == 0 && in.DevInputEvent.KeyY == 0 {
		// KEY_A KEY_B KEY_X KEY_Y
		in.DevInputEvent.KeyA, in.DevInputEvent.KeyB, in.DevInputEvent.KeyX, in.DevInputEvent.KeyY = 30, 48, 45, 21
	}
	if in.Gpio.Enable && in.DevInputEvent.Enable {
		errs = append(errs, errors.NotValidf("hardware.input: gpio and dev_input_event both enabled"))
	}

	disp := &c.Hardware.Display
	if disp.Width == 0 {
		disp.Width = 40
	}
	if disp.Height == 0 {
		disp.Height = 17
	}
	if disp.Width < 16 || disp.Height < 4 {
		errs = append(errs, errors.NotValidf("hardware.display size=%dx%d", disp.Width, disp.Height))
	}

	if c.UI.Title == "" {
		c.UI.Title = "Amaru"
	}
	if c.UI.ScanURL == "" {
		c.UI.ScanURL = "https://jeluard.github.io/amaru-pi/?page=app"
	}
	names := c.UI.Screens
	if env != nil {
		if s := strings.TrimSpace(env(EnvScreens)); s != "" {
			names = strings.Split(s, ",")
		}
	}
	if len(names) == 0 {
		names = DefaultScreens
	}
	c.screenOrder = c.screenOrder[:0]
	for _, name := range names {
		kind, err := types.ParseScreenKind(name)
		if err != nil {
			errs = append(errs, errors.Annotate(err, "ui.screens"))
			continue
		}
		c.screenOrder = append(c.screenOrder, kind)
	}

	if c.Probe.Service.Name == "" {
		c.Probe.Service.Name = "amaru"
	}
	up := &c.Probe.Update
	if up.Manifest == "" {
		up.Manifest = "/home/pi/.amaru_update_state.json"
	}
	if up.Trigger == "" {
		up.Trigger = "/home/pi/.update_requested"
	}
	if up.SnoozeHours == 0 {
		up.SnoozeHours = 48
	}
	if up.SnoozeHours < 0 {
		errs = append(errs, errors.NotValidf("probe.update.snooze_hours=%d", up.SnoozeHours))
	}
	if c.Probe.Wifi.Ifname == "" {
		c.Probe.Wifi.Ifname = "wlan0"
	}
	if c.Probe.Wifi.Connection == "" {
		c.Probe.Wifi.Connection = "mobile"
	}

	if c.Tele.Enable && c.Tele.MqttBroker == "" {
		errs = append(errs, errors.NotValidf("tele.mqtt_broker empty"))
	}
	if c.Tele.ClientID == "" {
		c.Tele.ClientID = "kiosk"
	}
	if c.Tele.TopicPrefix == "" {
		c.Tele.TopicPrefix = c.Tele.ClientID
	}
	return helpers.FoldErrors(errs)
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.AlreadyExistsf("config source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			*errs = append(*errs, errors.NotFoundf("config required name=%s path=%s", source.Name, norm))
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	if err = hcl.Unmarshal(bs, c); err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config unmarshal source=%s", source.Name))
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		if _, ok := c.includeSeen[fs.Normalize(include.Name)]; ok {
			*errs = append(*errs, errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name))
			continue
		}
		c.read(log, fs, include, errs)
	}
}

// ReadConfig reads names in order, later values override earlier.
// Validate is not called.
func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.NotValidf("code error ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, env func(string) string, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err == nil {
		err = c.Validate(env)
	}
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
