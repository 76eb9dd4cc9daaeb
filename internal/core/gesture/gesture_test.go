package gesture

import (
	"errors"
	"testing"
	"time"
)

const tick = 250 * time.Millisecond

// sweep feeds n ticks moving dx board units per tick along the x axis.
func sweep(m *Meter, n int, dx float64) Sample {
	var sample Sample
	at := Point{}
	for i := 0; i < n; i++ {
		at.X += dx
		sample = m.Tick(tick, at)
	}
	return sample
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "valid fixed multiplier",
			cfg:     Config{RequiredDuration: time.Second, MinSpeed: 10},
			wantErr: nil,
		},
		{
			name:    "valid speed scaling",
			cfg:     Config{RequiredDuration: time.Second, MinSpeed: 10, SpeedAffectsProgress: true, MaxMultiplier: 3},
			wantErr: nil,
		},
		{
			name:    "negative duration",
			cfg:     Config{RequiredDuration: -time.Second, MinSpeed: 10},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "negative min speed",
			cfg:     Config{RequiredDuration: time.Second, MinSpeed: -1},
			wantErr: ErrInvalidMinSpeed,
		},
		{
			name:    "zero min speed with scaling",
			cfg:     Config{RequiredDuration: time.Second, SpeedAffectsProgress: true, MaxMultiplier: 2},
			wantErr: ErrInvalidMinSpeed,
		},
		{
			name:    "multiplier below one",
			cfg:     Config{RequiredDuration: time.Second, MinSpeed: 10, SpeedAffectsProgress: true, MaxMultiplier: 0.5},
			wantErr: ErrInvalidMultiplier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpeedAtFloorCompletesExactlyOnTime(t *testing.T) {
	meter, err := NewMeter(Config{RequiredDuration: time.Second, MinSpeed: 10})
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}
	meter.Enter(Point{})

	// 2.5 units per 250ms tick is exactly the 10 units/s floor, so four
	// ticks accumulate the full second.
	sample := sweep(meter, 3, 2.5)
	if sample.Completed {
		t.Fatalf("completed after 750ms of qualifying motion, want incomplete")
	}
	if sample.Progress != 0.75 {
		t.Fatalf("Progress = %v, want 0.75", sample.Progress)
	}

	sample = meter.Tick(tick, Point{X: 10})
	if !sample.Completed {
		t.Fatal("not completed after a full second of qualifying motion")
	}
	if sample.Progress != 1 {
		t.Fatalf("Progress = %v, want 1", sample.Progress)
	}
}

func TestSpeedBelowFloorAddsNothing(t *testing.T) {
	meter, err := NewMeter(Config{RequiredDuration: time.Second, MinSpeed: 10})
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}
	meter.Enter(Point{})

	// 2 units per tick is 8 units/s, below the floor.
	sample := sweep(meter, 20, 2)
	if sample.Progress != 0 {
		t.Fatalf("Progress = %v after slow motion, want 0", sample.Progress)
	}
	if sample.Completed {
		t.Fatal("completed without qualifying motion")
	}
}

func TestSpeedScalingAppliesBoundedMultiplier(t *testing.T) {
	cfg := Config{
		RequiredDuration:     time.Second,
		MinSpeed:             10,
		SpeedAffectsProgress: true,
		MaxMultiplier:        3,
	}
	meter, err := NewMeter(cfg)
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}

	// Half the excess range: 15 units/s lerps to a 2x multiplier, so each
	// 250ms tick adds 500ms of progress.
	meter.Enter(Point{})
	sample := meter.Tick(tick, Point{X: 3.75})
	if sample.Progress != 0.5 {
		t.Fatalf("Progress = %v at 15 units/s, want 0.5", sample.Progress)
	}

	// Double the floor reaches the cap; going far beyond it must not
	// exceed the cap.
	meter.Enter(Point{})
	sample = meter.Tick(tick, Point{X: 100})
	if sample.Progress != 0.75 {
		t.Fatalf("Progress = %v at capped multiplier, want 0.75", sample.Progress)
	}
}

func TestScalingDisabledIgnoresExtraSpeed(t *testing.T) {
	meter, err := NewMeter(Config{RequiredDuration: time.Second, MinSpeed: 10})
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}
	meter.Enter(Point{})

	sample := meter.Tick(tick, Point{X: 100})
	if sample.Progress != 0.25 {
		t.Fatalf("Progress = %v with scaling disabled, want 0.25", sample.Progress)
	}
}

func TestNonPositiveDeltaAddsNothing(t *testing.T) {
	meter, err := NewMeter(Config{RequiredDuration: time.Second, MinSpeed: 0})
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}
	meter.Enter(Point{})

	if sample := meter.Tick(0, Point{X: 5}); sample.Progress != 0 {
		t.Fatalf("Progress = %v after zero delta, want 0", sample.Progress)
	}
	if sample := meter.Tick(-tick, Point{X: 10}); sample.Progress != 0 {
		t.Fatalf("Progress = %v after negative delta, want 0", sample.Progress)
	}
}

func TestZeroRequiredDurationCompletesInstantly(t *testing.T) {
	meter, err := NewMeter(Config{RequiredDuration: 0, MinSpeed: 10})
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}

	meter.Enter(Point{})
	if !meter.Tick(tick, Point{}).Completed {
		t.Fatal("zero required duration did not complete instantly")
	}
	if got := meter.Progress(); got != 1 {
		t.Fatalf("Progress = %v, want 1", got)
	}
}

func TestCompletionLatchesAndProgressStaysClamped(t *testing.T) {
	meter, err := NewMeter(Config{RequiredDuration: time.Second, MinSpeed: 10})
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}
	meter.Enter(Point{})

	sample := sweep(meter, 12, 2.5)
	if !sample.Completed {
		t.Fatal("expected completion after sustained qualifying motion")
	}
	if sample.Progress != 1 {
		t.Fatalf("Progress = %v after overshoot, want clamped 1", sample.Progress)
	}
}

func TestEnterResetsProgressBaseline(t *testing.T) {
	meter, err := NewMeter(Config{RequiredDuration: time.Second, MinSpeed: 10})
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}

	meter.Enter(Point{})
	sweep(meter, 2, 2.5)

	// Re-entering from a far position must not count the jump as motion.
	meter.Enter(Point{X: 50})
	sample := meter.Tick(tick, Point{X: 50})
	if sample.Progress != 0 {
		t.Fatalf("Progress = %v after re-enter without motion, want 0", sample.Progress)
	}

	meter.Reset()
	if got := meter.Progress(); got != 0 {
		t.Fatalf("Progress = %v after reset, want 0", got)
	}
}

func TestDiagonalMotionUsesEuclideanDistance(t *testing.T) {
	meter, err := NewMeter(Config{RequiredDuration: time.Second, MinSpeed: 10})
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}
	meter.Enter(Point{})

	// A 3-4-5 triangle: 2.5 units of travel per 250ms tick.
	sample := meter.Tick(tick, Point{X: 1.5, Y: 2})
	if sample.Progress != 0.25 {
		t.Fatalf("Progress = %v for diagonal motion at the floor, want 0.25", sample.Progress)
	}
}
