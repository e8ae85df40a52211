package preview

import (
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"gopkg.in/yaml.v3"
)

// WriteYAML writes cfg as YAML, syntax highlighted for a 256-colour terminal
// when color is set.
func WriteYAML(w io.Writer, cfg *Config, color bool) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if !color {
		_, err = w.Write(data)
		return err
	}
	return quick.Highlight(w, string(data), "yaml", "terminal256", "monokai")
}
