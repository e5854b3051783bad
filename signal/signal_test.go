package signal

import (
	"math"
	"math/rand"
	"testing"

	"github.com/bitdoglab/joystick/hal"
)

func TestFilterNeverOvershoots(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, alpha := range []float32{0.01, 0.1, 0.5, 0.9, 1} {
		f, err := NewFilter(alpha, hal.ADCCenter)
		if err != nil {
			t.Fatalf("alpha %v: %v", alpha, err)
		}
		for i := 0; i < 10000; i++ {
			prev := f.Value()
			raw := uint16(rng.Intn(hal.ADCMax + 1))
			got := f.Update(raw)
			lo, hi := prev, raw
			if lo > hi {
				lo, hi = hi, lo
			}
			if got < lo || got > hi {
				t.Fatalf("alpha %v: Update(%d) from %d = %d, outside [%d, %d]", alpha, raw, prev, got, lo, hi)
			}
		}
	}
}

func TestFilterConvergence(t *testing.T) {
	for _, tc := range []struct {
		raw      uint16
		min, max uint16
	}{
		{hal.ADCCenter, hal.ADCCenter, hal.ADCCenter},
		{0, 0, 0},
		// Rounding down stops the filter 9 counts short when rising.
		{hal.ADCMax, 4086, hal.ADCMax},
	} {
		f, err := NewFilter(0.1, hal.ADCCenter)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 200; i++ {
			f.Update(tc.raw)
		}
		if v := f.Value(); v < tc.min || v > tc.max {
			t.Errorf("raw %d: settled at %d, expected [%d, %d]", tc.raw, v, tc.min, tc.max)
		}
	}
}

func TestFilterFirstStep(t *testing.T) {
	f, err := NewFilter(0.1, hal.ADCCenter)
	if err != nil {
		t.Fatal(err)
	}
	// 0.1*0 + 0.9*2048 = 1843.2, rounded down.
	if got := f.Update(0); got != 1843 {
		t.Errorf("expected 1843, got %d", got)
	}

	f, err = NewFilter(1, hal.ADCCenter)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Update(17); got != 17 {
		t.Errorf("alpha 1 should follow the input, got %d", got)
	}
}

func TestFilterInvalidAlpha(t *testing.T) {
	for _, alpha := range []float32{0, -0.1, 1.01, float32(math.NaN()), 1e-9} {
		if _, err := NewFilter(alpha, 0); err != ErrAlphaOutOfRange {
			t.Errorf("alpha %v: expected ErrAlphaOutOfRange, got %v", alpha, err)
		}
	}
}

func TestCalibrator(t *testing.T) {
	c, err := NewCalibrator(52)
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		in, out uint16
	}{
		{0, 0},
		{52, 0},   // floored
		{10, 0},   // floored
		{2100, 2074}, // 2048*4095/4043, rounded down
		{4043, 4042},
		{4095, 4095}, // extreme still reached
	} {
		if got := c.Apply(tc.in); got != tc.out {
			t.Errorf("Apply(%d): expected %d, got %d", tc.in, tc.out, got)
		}
	}
	if got := c.RestError(); got != 26 {
		t.Errorf("RestError: expected 26, got %d", got)
	}
}

func TestCalibratorIdentity(t *testing.T) {
	c, err := NewCalibrator(0)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []uint16{0, 1, 2047, 2048, 4094, 4095} {
		if got := c.Apply(v); got != v {
			t.Errorf("Apply(%d) = %d, expected identity", v, got)
		}
	}
	if c.RestError() != 0 {
		t.Errorf("RestError should be 0 without an offset")
	}
}

func TestCalibratorOffsetOutOfRange(t *testing.T) {
	for _, offset := range []uint16{hal.ADCMax, hal.ADCMax + 1, 65535} {
		if _, err := NewCalibrator(offset); err != ErrOffsetOutOfRange {
			t.Errorf("offset %d: expected ErrOffsetOutOfRange, got %v", offset, err)
		}
	}
	if _, err := NewCalibrator(hal.ADCMax - 1); err != nil {
		t.Errorf("offset %d: %v", hal.ADCMax-1, err)
	}
}

// A stick resting at its physical center (which reads 52 counts high) must
// end up at exactly the center once filtered, calibrated and dead-zoned.
func TestRestPositionSettlesAtCenter(t *testing.T) {
	f, err := NewFilter(0.1, hal.ADCCenter)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCalibrator(52)
	if err != nil {
		t.Fatal(err)
	}
	dz, err := NewDeadzone(50)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		v := dz.Apply(c.Apply(f.Update(2100)))
		if v != hal.ADCCenter {
			t.Fatalf("cycle %d: expected %d, got %d (filtered %d)", i, hal.ADCCenter, v, f.Value())
		}
	}
}

func TestDeadzone(t *testing.T) {
	dz, err := NewDeadzone(50)
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		in, out uint16
	}{
		{0, 0},
		{1998, 1998}, // |v-center| == D is outside
		{1999, hal.ADCCenter},
		{2048, hal.ADCCenter},
		{2097, hal.ADCCenter},
		{2098, 2098},
		{4095, 4095},
	} {
		if got := dz.Apply(tc.in); got != tc.out {
			t.Errorf("Apply(%d): expected %d, got %d", tc.in, tc.out, got)
		}
	}

	if _, err := NewDeadzone(hal.ADCCenter - 1); err != ErrDeadzoneTooWide {
		t.Errorf("expected ErrDeadzoneTooWide, got %v", err)
	}
	if _, err := NewDeadzone(hal.ADCCenter - 2); err != nil {
		t.Errorf("widest deadzone rejected: %v", err)
	}
}

func TestBrightness(t *testing.T) {
	dz, err := NewDeadzone(50)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMapper(dz, hal.MaxDutyCycle)
	for _, tc := range []struct {
		in  uint16
		out uint32
	}{
		{0, 255},
		{1, 254}, // 1997*255/1998 = 254.87
		{999, 127},
		{1997, 0}, // 255/1998, rounded down
		{1998, 0}, // deadzone edge
		{2048, 0},
		{2098, 0}, // deadzone edge
		{2099, 0},
		{3096, 127},
		{4094, 254},
		{4095, 255},
	} {
		if got := m.Brightness(tc.in); got != tc.out {
			t.Errorf("Brightness(%d): expected %d, got %d", tc.in, tc.out, got)
		}
	}
}

func TestBrightnessProperties(t *testing.T) {
	for _, d := range []uint16{0, 1, 50, 500, 2046} {
		dz, err := NewDeadzone(d)
		if err != nil {
			t.Fatal(err)
		}
		m := NewMapper(dz, hal.MaxDutyCycle)
		var prev uint32
		for v := 0; v <= hal.ADCMax; v++ {
			b := m.Brightness(uint16(v))
			if b > hal.MaxDutyCycle {
				t.Fatalf("D=%d: Brightness(%d) = %d exceeds wrap", d, v, b)
			}
			dist := v - hal.ADCCenter
			if dist < 0 {
				dist = -dist
			}
			if dist < int(d) && b != 0 {
				t.Fatalf("D=%d: Brightness(%d) = %d inside the deadzone", d, v, b)
			}
			switch {
			case v > 0 && v < hal.ADCCenter-int(d):
				if b > prev {
					t.Fatalf("D=%d: lower ramp rises at %d (%d > %d)", d, v, b, prev)
				}
			case v > hal.ADCCenter+int(d):
				if b < prev {
					t.Fatalf("D=%d: upper ramp falls at %d (%d < %d)", d, v, b, prev)
				}
			}
			prev = b
		}
		if b := m.Brightness(0); b != hal.MaxDutyCycle {
			t.Errorf("D=%d: Brightness(0) = %d", d, b)
		}
		if b := m.Brightness(hal.ADCMax); b != hal.MaxDutyCycle {
			t.Errorf("D=%d: Brightness(max) = %d", d, b)
		}
	}
}
