// Package scan produces fixed-length windows of a normalized sequence
// at a configurable step.
package scan

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned for a non-positive window length or
// step.
var ErrInvalidConfig = errors.New("invalid scan configuration")

// Config defines window length and the distance between successive
// window offsets.
type Config struct {
	WindowLength int
	Step         int
}

var (
	// Frame is the codon frame aligned profile, this is the default.
	Frame = Config{WindowLength: 9, Step: 3}
	// Dense is the exhaustive profile, every offset is used.
	Dense = Config{WindowLength: 9, Step: 1}
	// Default is the default scan configuration.
	Default = Frame
)

// Profiles are scan configurations which can be selected by name.
var Profiles = map[string]Config{
	"frame": Frame,
	"dense": Dense,
}

// ProfileByName returns a named scan profile.
func ProfileByName(name string) (Config, error) {
	cfg, ok := Profiles[strings.ToLower(name)]
	if !ok {
		return Config{}, fmt.Errorf("unknown scan profile: %s", name)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.WindowLength <= 0 {
		return fmt.Errorf("%w: window length %d", ErrInvalidConfig, c.WindowLength)
	}
	if c.Step <= 0 {
		return fmt.Errorf("%w: step %d", ErrInvalidConfig, c.Step)
	}
	return nil
}

// Count returns the number of windows a sequence of length n yields.
func (c Config) Count(n int) int {
	if n < c.WindowLength {
		return 0
	}
	return (n-c.WindowLength)/c.Step + 1
}

func (c Config) String() string {
	return fmt.Sprintf("window=%d, step=%d", c.WindowLength, c.Step)
}

// Window is a subsequence with its start offset.
type Window struct {
	Offset   int
	Sequence string
}

// Scanner iterates over windows of a sequence in the ascending offset
// order. Windows are substrings of the original sequence, so the
// scanner doesn't allocate.
//
//	s, _ := scan.NewScanner(seq, scan.Frame)
//	for s.Scan() {
//		w := s.Window()
//	}
type Scanner struct {
	seq    string
	cfg    Config
	next   int
	window Window
}

// NewScanner creates a new scanner over seq.
func NewScanner(seq string, cfg Config) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{seq: seq, cfg: cfg}, nil
}

// Scan advances to the next window. It returns false when there are
// no more windows.
func (s *Scanner) Scan() bool {
	if s.next+s.cfg.WindowLength > len(s.seq) {
		return false
	}
	s.window = Window{
		Offset:   s.next,
		Sequence: s.seq[s.next : s.next+s.cfg.WindowLength],
	}
	s.next += s.cfg.Step
	return true
}

// Window returns the current window.
func (s *Scanner) Window() Window {
	return s.window
}

// Reset restarts the scanner from the first window.
func (s *Scanner) Reset() {
	s.next = 0
	s.window = Window{}
}

// Config returns the scanner configuration.
func (s *Scanner) Config() Config {
	return s.cfg
}

// Len returns the total number of windows.
func (s *Scanner) Len() int {
	return s.cfg.Count(len(s.seq))
}
