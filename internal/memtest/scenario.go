package memtest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a declarative fixture: named registers, symbols, and
// persistent-variable seed state for an end-to-end Materializer test,
// loaded from testdata/scenarios/*.yaml.
type Scenario struct {
	Name string `yaml:"name"`

	Registers []struct {
		Name string `yaml:"name"`
		Hex  string `yaml:"hex"`
	} `yaml:"registers"`

	Symbols []struct {
		Name     string `yaml:"name"`
		LoadAddr uint64 `yaml:"load_addr,omitempty"`
		HasLoad  bool   `yaml:"has_load"`
		FileAddr uint64 `yaml:"file_addr"`
	} `yaml:"symbols"`

	Persistent []struct {
		Name            string `yaml:"name"`
		ByteSize        uint64 `yaml:"byte_size"`
		NeedsAllocation bool   `yaml:"needs_allocation"`
		KeepInTarget    bool   `yaml:"keep_in_target"`
	} `yaml:"persistent"`
}

// LoadScenario reads and parses a Scenario fixture.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memtest: read scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("memtest: parse scenario %s: %w", path, err)
	}
	return &sc, nil
}

// RegisterBytes decodes a register's hex fixture string into bytes,
// most-significant byte first as written, then reverses it to the
// little-endian wire form Registers expects.
func RegisterBytes(hexStr string) ([]byte, error) {
	if len(hexStr)%2 != 0 {
		return nil, fmt.Errorf("memtest: odd-length hex string %q", hexStr)
	}
	out := make([]byte, len(hexStr)/2)
	for i := range out {
		var b byte
		if _, err := fmt.Sscanf(hexStr[i*2:i*2+2], "%02x", &b); err != nil {
			return nil, fmt.Errorf("memtest: invalid hex byte in %q: %w", hexStr, err)
		}
		out[len(out)-1-i] = b
	}
	return out, nil
}
