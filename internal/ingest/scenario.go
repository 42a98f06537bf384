package ingest

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/seo-forecast/internal/model"
)

// Scenario is a saved forecast input: settings plus keywords.
type Scenario struct {
	Name     string          `yaml:"name" json:"name"`
	Settings model.Settings  `yaml:"settings" json:"settings"`
	Keywords []model.Keyword `yaml:"keywords" json:"keywords"`
}

// LoadScenario reads a YAML scenario file. Settings missing from the file
// keep their application defaults.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open scenario %s", path)
	}
	defer f.Close() //nolint:errcheck
	return ParseScenario(f)
}

// ParseScenario decodes a YAML scenario and validates its settings.
func ParseScenario(r io.Reader) (*Scenario, error) {
	sc := &Scenario{Settings: model.DefaultSettings()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil {
		if err == io.EOF {
			return nil, eris.New("ingest: scenario is empty")
		}
		return nil, eris.Wrap(err, "ingest: parse scenario")
	}
	if err := sc.Settings.Validate(); err != nil {
		return nil, eris.Wrap(err, "ingest: scenario settings")
	}
	return sc, nil
}

// WriteScenario encodes sc as YAML.
func WriteScenario(w io.Writer, sc *Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return eris.Wrap(err, "ingest: encode scenario")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "ingest: close scenario encoder")
	}
	return nil
}
