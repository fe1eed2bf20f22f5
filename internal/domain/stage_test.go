package domain

import "testing"

func TestStageIndex(t *testing.T) {
	t.Parallel()

	offsets := []int{30, 14, 3, 0}

	tests := []struct {
		name      string
		days      int
		wantIndex int
		wantFound bool
	}{
		{name: "first stage", days: 30, wantIndex: 0, wantFound: true},
		{name: "middle stage", days: 14, wantIndex: 1, wantFound: true},
		{name: "deadline day", days: 0, wantIndex: 3, wantFound: true},
		{name: "between stages", days: 15, wantFound: false},
		{name: "past deadline", days: -1, wantFound: false},
		{name: "beyond first stage", days: 31, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			index, found := StageIndex(offsets, tt.days)
			if found != tt.wantFound {
				t.Fatalf("StageIndex(%v, %d) found = %v, want %v", offsets, tt.days, found, tt.wantFound)
			}
			if found && index != tt.wantIndex {
				t.Fatalf("StageIndex(%v, %d) = %d, want %d", offsets, tt.days, index, tt.wantIndex)
			}
		})
	}
}

func TestStageIndexUnorderedSchedule(t *testing.T) {
	t.Parallel()

	// Index is positional, not sorted.
	index, found := StageIndex([]int{0, 3, 14, 30}, 14)
	if !found || index != 2 {
		t.Fatalf("StageIndex = (%d, %v), want (2, true)", index, found)
	}
}

func TestStageSatisfied(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stageIndex int
		priorSent  int
		want       bool
	}{
		{name: "stage 2 still due after two sends", stageIndex: 2, priorSent: 2, want: false},
		{name: "stage 3 still due after two sends", stageIndex: 3, priorSent: 2, want: false},
		{name: "stage 2 covered by three sends", stageIndex: 2, priorSent: 3, want: true},
		{name: "first stage due with no sends", stageIndex: 0, priorSent: 0, want: false},
		{name: "first stage covered by one send", stageIndex: 0, priorSent: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StageSatisfied(tt.stageIndex, tt.priorSent); got != tt.want {
				t.Fatalf("StageSatisfied(%d, %d) = %v, want %v", tt.stageIndex, tt.priorSent, got, tt.want)
			}
		})
	}
}
