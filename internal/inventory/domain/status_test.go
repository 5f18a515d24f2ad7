package domain

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		days *int
		want Status
	}{
		{"nil means non-expiring", nil, StatusNone},
		{"zero is bad", intp(0), StatusBad},
		{"two is bad", intp(2), StatusBad},
		{"three is warning", intp(3), StatusWarning},
		{"five is warning", intp(5), StatusWarning},
		{"six is good", intp(6), StatusGood},
		{"large value is good", intp(365), StatusGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.days); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
