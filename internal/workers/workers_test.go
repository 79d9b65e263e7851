package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	t.Setenv(EnvOverride, "")
	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{"one per CPU", 1.0, 0, available},
		{"two per CPU", 2.0, 0, available * 2},
		{"capped", 2.0, 1, 1},
		{"never below one", 0.0001, 0, 1},
		{"limit above count", 1.0, available + 10, available},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCountOverride(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name  string
		env   string
		limit int
		want  int
	}{
		{"valid", "8", 0, 8},
		{"capped by limit", "20", 10, 10},
		{"below limit", "5", 10, 5},
		{"non-numeric ignored", "many", 0, available},
		{"zero ignored", "0", 0, available},
		{"negative ignored", "-3", 0, available},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvOverride, tt.env)
			if got := Count(1.0, tt.limit); got != tt.want {
				t.Errorf("Count with %s=%q = %d, want %d", EnvOverride, tt.env, got, tt.want)
			}
		})
	}
}

func TestForCPU(t *testing.T) {
	t.Setenv(EnvOverride, "")

	if got, want := ForCPU(0), runtime.GOMAXPROCS(0); got != want {
		t.Errorf("ForCPU(0) = %d, want %d", got, want)
	}
	if got := ForCPU(1); got != 1 {
		t.Errorf("ForCPU(1) = %d, want 1", got)
	}
}

func BenchmarkCount(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Count(1.0, 8)
	}
}
