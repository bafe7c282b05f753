package aio

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Preset is a TOML-serializable snapshot of channel settings, used to
// store and restore bench configurations.
type Preset struct {
	Name    string         `toml:"name,omitempty"`
	Inputs  []InputPreset  `toml:"inputs,omitempty"`
	Outputs []OutputPreset `toml:"outputs,omitempty"`
}

// InputPreset holds the stored settings for one input channel.
type InputPreset struct {
	Channel         int  `toml:"channel"`
	Gain            int  `toml:"gain"`
	ConstantCurrent bool `toml:"constant_current"`
}

// OutputPreset holds the stored settings for one output channel.
type OutputPreset struct {
	Channel int `toml:"channel"`
	Gain    int `toml:"gain"`
}

// LoadPreset reads and parses a preset file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset %s: %w", path, err)
	}

	var preset Preset
	if err := toml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}

	seen := make(map[int]bool, len(preset.Inputs))
	for _, in := range preset.Inputs {
		if seen[in.Channel] {
			return nil, fmt.Errorf("preset %s lists input channel %d twice", path, in.Channel)
		}

		seen[in.Channel] = true
	}

	seen = make(map[int]bool, len(preset.Outputs))
	for _, out := range preset.Outputs {
		if seen[out.Channel] {
			return nil, fmt.Errorf("preset %s lists output channel %d twice", path, out.Channel)
		}

		seen[out.Channel] = true
	}

	return &preset, nil
}

// Save writes the preset to a TOML file.
func (p *Preset) Save(path string) error {
	if p == nil {
		return fmt.Errorf("preset is nil")
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preset: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preset %s: %w", path, err)
	}

	return nil
}

// Apply pushes every stored channel setting to the device. Constant-current
// state is skipped on channels whose module has no constant-current power
// unless the preset asks to enable it, which is an error.
func (p *Preset) Apply(dev *Device) error {
	if p == nil {
		return fmt.Errorf("preset is nil")
	}

	for _, in := range p.Inputs {
		ch, err := dev.Input(in.Channel)
		if err != nil {
			return err
		}

		if err := ch.SetGain(in.Gain); err != nil {
			return err
		}

		if !ch.Module().SupportsConstantCurrent() && !in.ConstantCurrent {
			continue
		}

		if err := ch.SetConstantCurrent(in.ConstantCurrent); err != nil {
			return err
		}
	}

	for _, out := range p.Outputs {
		ch, err := dev.Output(out.Channel)
		if err != nil {
			return err
		}

		if err := ch.SetGain(out.Gain); err != nil {
			return err
		}
	}

	return nil
}

// Snapshot reads the current state of every channel into a preset.
func (d *Device) Snapshot() (*Preset, error) {
	if d == nil {
		return nil, fmt.Errorf("device is nil")
	}

	preset := &Preset{}

	for _, ch := range d.Inputs() {
		gain, err := ch.Gain()
		if err != nil {
			return nil, err
		}

		in := InputPreset{Channel: ch.Index(), Gain: gain}

		if ch.Module().SupportsConstantCurrent() {
			ccp, err := ch.ConstantCurrent()
			if err != nil && !errors.Is(err, AIO_ERROR_NOT_SUPPORTED) {
				return nil, err
			}

			in.ConstantCurrent = ccp
		}

		preset.Inputs = append(preset.Inputs, in)
	}

	for _, ch := range d.Outputs() {
		gain, err := ch.Gain()
		if err != nil {
			return nil, err
		}

		preset.Outputs = append(preset.Outputs, OutputPreset{Channel: ch.Index(), Gain: gain})
	}

	return preset, nil
}
