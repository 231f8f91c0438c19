package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/socdeck/internal/application/usecase"
)

func TestShouldPropagate(t *testing.T) {
	tests := []struct {
		name           string
		syncEnabled    bool
		senderOnDetail bool
		want           bool
	}{
		{name: "enabled, sender on feed", syncEnabled: true, senderOnDetail: false, want: true},
		{name: "enabled, sender on detail", syncEnabled: true, senderOnDetail: true, want: false},
		{name: "disabled suppresses regardless", syncEnabled: false, senderOnDetail: false, want: false},
		{name: "disabled and detail", syncEnabled: false, senderOnDetail: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.ShouldPropagate(tt.syncEnabled, tt.senderOnDetail))
		})
	}
}

func TestEligibleReceivers(t *testing.T) {
	tests := []struct {
		name     string
		sender   int
		visible  []bool
		onDetail []bool
		want     []int
	}{
		{
			name:     "all visible, none on detail",
			sender:   0,
			visible:  []bool{true, true, true, true, true},
			onDetail: []bool{false, false, false, false, false},
			want:     []int{1, 2, 3, 4},
		},
		{
			name:     "detail panes excluded as receivers",
			sender:   0,
			visible:  []bool{true, true, true, true, true},
			onDetail: []bool{false, true, false, true, false},
			want:     []int{2, 4},
		},
		{
			name:     "hidden panes excluded",
			sender:   1,
			visible:  []bool{true, true, false, true, false},
			onDetail: []bool{false, false, false, false, false},
			want:     []int{0, 3},
		},
		{
			name:     "nobody eligible",
			sender:   0,
			visible:  []bool{true, true},
			onDetail: []bool{false, true},
			want:     []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.EligibleReceivers(tt.sender, tt.visible, tt.onDetail))
		})
	}
}
