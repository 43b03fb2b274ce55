package core

import (
	"errors"
	"strings"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 || Clamp(-5, 0, 10) != 0 || Clamp(15, 0, 10) != 10 {
		t.Error("Clamp(int) failed")
	}
	if Clamp[float32](1.5, 2, 3) != 2 || Clamp[float32](3.5, 2, 3) != 3 {
		t.Error("Clamp(float32) failed")
	}
}

func TestColorChannels(t *testing.T) {
	r, g, b := ColorOrange.RGB()
	if r != 0xFF || g != 0xAA || b != 0x00 {
		t.Errorf("RGB() = %#x %#x %#x, expected ff aa 00", r, g, b)
	}
	if ColorOrange.Alpha() != 0xFF {
		t.Errorf("Alpha() = %#x, expected ff", ColorOrange.Alpha())
	}
}

func TestDeltaTime(t *testing.T) {
	if dt := (RuntimeConfig{TickRate: 50}).DeltaTime(); dt != 0.02 {
		t.Errorf("DeltaTime() = %v, expected 0.02", dt)
	}
	if dt := (RuntimeConfig{}).DeltaTime(); dt != float32(1.0/60) {
		t.Errorf("DeltaTime() with zero tick rate = %v, expected 1/60", dt)
	}
}

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionUp) {
		t.Error("zero frame should have no actions")
	}

	f.Set(ActionUp)
	f.Set(ActionBomb)
	clone := f.Clone()
	f.Clear()

	if f.Has(ActionUp) {
		t.Error("Clear should drop actions")
	}
	if !clone.Has(ActionUp) || !clone.Has(ActionBomb) {
		t.Error("Clone should be independent of the original")
	}
	if ActionBomb.String() != "Bomb" || Action(99).String() != "Unknown" {
		t.Error("Action.String() mismatch")
	}
}

func TestNormalizePlayerName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"  alice ", "alice", false},
		{"bo", "", true},
		{"   ", "", true},
		{"игрок", "игрок", false},
		{strings.Repeat("x", MaxPlayerName+1), "", true},
	}

	for _, tc := range tests {
		got, err := NormalizePlayerName(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidPlayerName) {
				t.Errorf("NormalizePlayerName(%q) error = %v, expected ErrInvalidPlayerName", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("NormalizePlayerName(%q) = %q, %v; expected %q", tc.in, got, err, tc.want)
		}
	}
}

func TestNormalizeDeviceType(t *testing.T) {
	if NormalizeDeviceType(DeviceSSH) != DeviceSSH {
		t.Error("ssh should be kept")
	}
	if NormalizeDeviceType("mobile") != DeviceTerminal {
		t.Error("unknown device should map to terminal")
	}
}
