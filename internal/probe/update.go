package probe

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/internal/types"
)

// UpdateStore is the file interface to the external updater:
// it writes manifest, kiosk may move notify_after and create trigger file.
type UpdateStore struct {
	ManifestPath string
	TriggerPath  string
}

func NewUpdateStore(manifest, trigger string) *UpdateStore {
	return &UpdateStore{ManifestPath: manifest, TriggerPath: trigger}
}

// Read returns empty manifest when file does not exist.
func (self *UpdateStore) Read() (types.UpdateManifest, error) {
	var m types.UpdateManifest
	b, err := os.ReadFile(self.ManifestPath)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return m, errors.Annotate(err, "update manifest read")
	}
	if err = json.Unmarshal(b, &m); err != nil {
		return types.UpdateManifest{}, errors.Annotatef(err, "update manifest parse path=%s", self.ManifestPath)
	}
	return m, nil
}

// Snooze moves notify_after to now+d, keeps keys kiosk does not know.
func (self *UpdateStore) Snooze(now time.Time, d time.Duration) error {
	doc := make(map[string]json.RawMessage)
	b, err := os.ReadFile(self.ManifestPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return errors.Annotate(err, "update snooze read")
	default:
		if err = json.Unmarshal(b, &doc); err != nil {
			return errors.Annotatef(err, "update snooze parse path=%s", self.ManifestPath)
		}
	}
	notify, _ := json.Marshal(now.Add(d).Unix())
	doc["notify_after"] = notify
	if _, ok := doc["applications"]; !ok {
		doc["applications"] = json.RawMessage("{}")
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Annotate(writeFileAtomic(self.ManifestPath, out), "update snooze")
}

// RequestUpdate creates trigger file watched by the updater.
func (self *UpdateStore) RequestUpdate() error {
	f, err := os.Create(self.TriggerPath)
	if err != nil {
		return errors.Annotate(err, "update request")
	}
	return errors.Annotate(f.Close(), "update request")
}

func writeFileAtomic(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
