package scoring

import (
	"embed"
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
)

//go:embed data/reshel.yaml data/mccullough.yaml
var bundledTables embed.FS

type reshelFile struct {
	Increment *float64    `yaml:"increment"`
	Male      [][]float64 `yaml:"male"`
	Female    [][]float64 `yaml:"female"`
}

type mcculloughFile struct {
	Entries [][]float64 `yaml:"entries"`
}

// ParseReshel decodes a Reshel YAML document: an increment plus male and
// female lists of [bodyweight, coefficient] pairs in ascending bodyweight
// order. A missing increment means DefaultReshelIncrementKg.
func ParseReshel(data []byte) (ReshelTable, error) {
	var f reshelFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return ReshelTable{}, apperrors.Wrap(err, apperrors.ErrInvalidTable, "decode reshel table")
	}
	male, err := pairsToEntries("reshel male", f.Male)
	if err != nil {
		return ReshelTable{}, err
	}
	female, err := pairsToEntries("reshel female", f.Female)
	if err != nil {
		return ReshelTable{}, err
	}
	inc := DefaultReshelIncrementKg
	if f.Increment != nil {
		inc = *f.Increment
	}
	if inc <= 0 || !finite(inc) {
		return ReshelTable{}, apperrors.InvalidTablef("reshel increment must be positive, got %v", inc)
	}
	return ReshelTable{IncrementKg: inc, Male: male, Female: female}, nil
}

// ParseMcCullough decodes a McCullough YAML document of [age, coefficient] pairs in ascending age order
func ParseMcCullough(data []byte) (McCulloughTable, error) {
	var f mcculloughFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return McCulloughTable{}, apperrors.Wrap(err, apperrors.ErrInvalidTable, "decode mccullough table")
	}
	entries, err := pairsToEntries("mccullough", f.Entries)
	if err != nil {
		return McCulloughTable{}, err
	}
	return McCulloughTable{Entries: entries}, nil
}

func pairsToEntries(name string, pairs [][]float64) ([]CoefficientEntry, error) {
	entries := make([]CoefficientEntry, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, apperrors.InvalidTablef("%s row %d: want [key, coefficient], got %d values", name, i, len(p))
		}
		entries = append(entries, CoefficientEntry{Key: p[0], Coefficient: p[1]})
	}
	if err := validateEntries(name, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadTables reads the Reshel and McCullough tables from the given files.
// An empty path selects the bundled table. The result is validated.
func LoadTables(reshelPath, mcculloughPath string) (*Tables, error) {
	reshelData, err := readTableFile(reshelPath, "data/reshel.yaml")
	if err != nil {
		return nil, err
	}
	mccData, err := readTableFile(mcculloughPath, "data/mccullough.yaml")
	if err != nil {
		return nil, err
	}

	reshel, err := ParseReshel(reshelData)
	if err != nil {
		return nil, err
	}
	mcc, err := ParseMcCullough(mccData)
	if err != nil {
		return nil, err
	}

	t := &Tables{Reshel: reshel, McCullough: mcc}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultTables returns the bundled tables
func DefaultTables() (*Tables, error) {
	return LoadTables("", "")
}

func readTableFile(path, bundled string) ([]byte, error) {
	if path == "" {
		return bundledTables.ReadFile(bundled)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read coefficient table %s: %w", path, err)
	}
	return data, nil
}

// TableLoader produces a fresh, validated Tables snapshot
type TableLoader func() (*Tables, error)

// TableCache hands out the current coefficient snapshot. Reload builds a new
// snapshot and swaps it in atomically; readers holding the old one keep a
// consistent view until they drop it.
type TableCache struct {
	current atomic.Pointer[Tables]
	load    TableLoader
}

// NewTableCache loads the first snapshot eagerly
func NewTableCache(load TableLoader) (*TableCache, error) {
	c := &TableCache{load: load}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Snapshot returns the current tables
func (c *TableCache) Snapshot() *Tables {
	return c.current.Load()
}

// Reload replaces the snapshot. On error the previous snapshot stays in place.
func (c *TableCache) Reload() error {
	t, err := c.load()
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	c.current.Store(t)
	return nil
}
