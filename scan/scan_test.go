package scan

import (
	"errors"
	"strings"
	"testing"
)

const (
	seq1 = "ATGGAGCTGATGGAGCTG"
)

func collect(s *Scanner) (ws []Window) {
	for s.Scan() {
		ws = append(ws, s.Window())
	}
	return
}

func TestFrame(tst *testing.T) {
	s, err := NewScanner(seq1, Frame)
	if err != nil {
		tst.Fatal(err)
	}
	expected := []Window{
		{0, "ATGGAGCTG"},
		{3, "GAGCTGATG"},
		{6, "CTGATGGAG"},
		{9, "ATGGAGCTG"},
	}
	ws := collect(s)
	if len(ws) != len(expected) {
		tst.Fatalf("Expected %d windows, got %d", len(expected), len(ws))
	}
	for i := range ws {
		if ws[i] != expected[i] {
			tst.Errorf("Window %d: expected %v, got %v", i, expected[i], ws[i])
		}
	}
}

func TestDense(tst *testing.T) {
	s, err := NewScanner(seq1, Dense)
	if err != nil {
		tst.Fatal(err)
	}
	ws := collect(s)
	if len(ws) != 10 {
		tst.Fatalf("Expected 10 windows, got %d", len(ws))
	}
	for i, w := range ws {
		if w.Offset != i || w.Sequence != seq1[i:i+9] {
			tst.Errorf("Wrong window %d: %v", i, w)
		}
	}
}

func TestCount(tst *testing.T) {
	for l := 0; l < 40; l++ {
		seq := strings.Repeat("A", l)
		for _, cfg := range []Config{Frame, Dense, {WindowLength: 6, Step: 4}} {
			s, err := NewScanner(seq, cfg)
			if err != nil {
				tst.Fatal(err)
			}
			n := len(collect(s))
			expected := 0
			if l >= cfg.WindowLength {
				expected = (l-cfg.WindowLength)/cfg.Step + 1
			}
			if n != expected || s.Len() != expected {
				tst.Errorf("L=%d, %v: expected %d windows, got %d (Len=%d)", l, cfg, expected, n, s.Len())
			}
		}
	}
}

func TestRestart(tst *testing.T) {
	s, err := NewScanner(seq1, Frame)
	if err != nil {
		tst.Fatal(err)
	}
	ws1 := collect(s)
	if s.Scan() {
		tst.Error("Exhausted scanner returned a window")
	}
	s.Reset()
	ws2 := collect(s)
	if len(ws1) != len(ws2) {
		tst.Fatal("Restarted scanner produced a different number of windows")
	}
	for i := range ws1 {
		if ws1[i] != ws2[i] {
			tst.Errorf("Window %d differs after restart", i)
		}
	}
}

func TestInvalidConfig(tst *testing.T) {
	for _, cfg := range []Config{{0, 3}, {9, 0}, {-1, 1}} {
		if _, err := NewScanner(seq1, cfg); !errors.Is(err, ErrInvalidConfig) {
			tst.Errorf("%v: expected ErrInvalidConfig, got %v", cfg, err)
		}
	}
}

func TestProfileByName(tst *testing.T) {
	if cfg, err := ProfileByName("dense"); err != nil || cfg.Step != 1 {
		tst.Error("Wrong dense profile")
	}
	if cfg, err := ProfileByName("Frame"); err != nil || cfg.Step != 3 {
		tst.Error("Wrong frame profile")
	}
	if Default.Step != 3 {
		tst.Error("Default step should be 3")
	}
	if _, err := ProfileByName("sparse"); err == nil {
		tst.Error("Expected error for unknown profile")
	}
}
