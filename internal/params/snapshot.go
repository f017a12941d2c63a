package params

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/progracyd/newsim/internal/model"
)

// snapshot is the human-readable mirror of SignatureParameters written
// to disk for operator inspection; the adapter's "params" hash remains
// authoritative.
type snapshot struct {
	K  int      `yaml:"k"`
	B  int      `yaml:"b"`
	R  int      `yaml:"r"`
	M  uint64   `yaml:"m"`
	A  []uint64 `yaml:"a"`
	Bc []uint64 `yaml:"bc"`
}

// SaveSnapshot writes p to path as YAML. It is a debug convenience,
// never read back by LoadOrInit.
func SaveSnapshot(path string, p model.SignatureParameters) error {
	out, err := yaml.Marshal(snapshot{K: p.K, B: p.B, R: p.R, M: p.M, A: p.A, Bc: p.Bc})
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
