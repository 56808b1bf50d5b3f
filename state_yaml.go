package spritefield

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadState decodes a YAML state over DefaultState and normalizes it.
// Missing fields keep their defaults; out-of-range values are clamped and
// unknown enum names fall back to safe defaults.
func LoadState(r io.Reader) (GeneratorState, error) {
	st := DefaultState()
	if err := yaml.NewDecoder(r).Decode(&st); err != nil && !errors.Is(err, io.EOF) {
		return GeneratorState{}, fmt.Errorf("decode state: %w", err)
	}
	return st.Normalized(), nil
}

// LoadStateFile reads a YAML state from path.
func LoadStateFile(path string) (GeneratorState, error) {
	f, err := os.Open(path)
	if err != nil {
		return GeneratorState{}, fmt.Errorf("load state: %w", err)
	}
	defer func() { _ = f.Close() }()
	st, err := LoadState(f)
	if err != nil {
		return GeneratorState{}, fmt.Errorf("load state %s: %w", path, err)
	}
	return st, nil
}

// WriteYAML encodes s as YAML.
func (s GeneratorState) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return enc.Close()
}

// SequenceStep is one entry of a playback sequence: a state, how to
// transition into it, and how long to hold it afterwards.
type SequenceStep struct {
	State      GeneratorState
	Transition TransitionKind
	Hold       time.Duration
}

// sequenceFile is the on-disk sequence format. Each state is a partial
// overlay on the previous step's state.
type sequenceFile struct {
	Steps []struct {
		Transition TransitionKind `yaml:"transition"`
		Hold       time.Duration  `yaml:"hold"`
		State      yaml.Node      `yaml:"state"`
	} `yaml:"steps"`
}

// defaultHold is used for steps without a hold time.
const defaultHold = 5 * time.Second

// LoadSequence decodes a YAML sequence. The first step overlays
// DefaultState; each later step overlays the one before it.
func LoadSequence(r io.Reader) ([]SequenceStep, error) {
	var file sequenceFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode sequence: %w", err)
	}
	steps := make([]SequenceStep, 0, len(file.Steps))
	prev := DefaultState()
	for i, raw := range file.Steps {
		st := prev.Clone()
		if !raw.State.IsZero() {
			if err := raw.State.Decode(&st); err != nil {
				return nil, fmt.Errorf("decode sequence step %d: %w", i, err)
			}
		}
		st = st.Normalized()
		hold := raw.Hold
		if hold <= 0 {
			hold = defaultHold
		}
		steps = append(steps, SequenceStep{State: st, Transition: raw.Transition, Hold: hold})
		prev = st
	}
	return steps, nil
}
