package scheduling

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClockMinute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		clock   string
		want    int
		wantErr bool
	}{
		{clock: "00:00", want: 0},
		{clock: "07:30", want: 450},
		{clock: "23:59", want: 1439},
		{clock: "24:00", wantErr: true},
		{clock: "7:30pm", wantErr: true},
		{clock: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ClockMinute(tc.clock)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ClockMinute(%q): expected error", tc.clock)
			}
			continue
		}
		if err != nil {
			t.Errorf("ClockMinute(%q): unexpected error: %v", tc.clock, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ClockMinute(%q) = %d, want %d", tc.clock, got, tc.want)
		}
	}
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	base := Class{
		ID:          "candidate",
		TrainerID:   "trainer-1",
		Room:        "studio-a",
		Date:        day(2025, time.March, 10),
		StartMinute: 9 * 60,
		EndMinute:   10 * 60,
	}

	cases := []struct {
		name      string
		existing  []Class
		candidate Class
		want      []Conflict
	}{
		{
			name:      "no existing classes",
			candidate: base,
		},
		{
			name: "same trainer overlapping",
			existing: []Class{{
				ID: "other", TrainerID: "trainer-1", Room: "studio-b",
				Date: day(2025, time.March, 10), StartMinute: 9*60 + 30, EndMinute: 10*60 + 30,
			}},
			candidate: base,
			want:      []Conflict{{WithClassID: "other", Type: ConflictTrainer, TrainerID: "trainer-1"}},
		},
		{
			name: "same room overlapping",
			existing: []Class{{
				ID: "other", TrainerID: "trainer-2", Room: "studio-a",
				Date: day(2025, time.March, 10), StartMinute: 8 * 60, EndMinute: 9*60 + 15,
			}},
			candidate: base,
			want:      []Conflict{{WithClassID: "other", Type: ConflictRoom, Room: "studio-a"}},
		},
		{
			name: "same trainer and room report both",
			existing: []Class{{
				ID: "other", TrainerID: "trainer-1", Room: "studio-a",
				Date: day(2025, time.March, 10), StartMinute: 9 * 60, EndMinute: 10 * 60,
			}},
			candidate: base,
			want: []Conflict{
				{WithClassID: "other", Type: ConflictTrainer, TrainerID: "trainer-1"},
				{WithClassID: "other", Type: ConflictRoom, Room: "studio-a"},
			},
		},
		{
			name: "back to back classes do not conflict",
			existing: []Class{{
				ID: "other", TrainerID: "trainer-1", Room: "studio-a",
				Date: day(2025, time.March, 10), StartMinute: 10 * 60, EndMinute: 11 * 60,
			}},
			candidate: base,
		},
		{
			name: "same slot on another day does not conflict",
			existing: []Class{{
				ID: "other", TrainerID: "trainer-1", Room: "studio-a",
				Date: day(2025, time.March, 11), StartMinute: 9 * 60, EndMinute: 10 * 60,
			}},
			candidate: base,
		},
		{
			name: "candidate never conflicts with itself",
			existing: []Class{{
				ID: "candidate", TrainerID: "trainer-1", Room: "studio-a",
				Date: day(2025, time.March, 10), StartMinute: 9 * 60, EndMinute: 10 * 60,
			}},
			candidate: base,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := DetectConflicts(tc.existing, tc.candidate)
			if len(got) != len(tc.want) {
				t.Fatalf("DetectConflicts returned %d conflicts, want %d: %+v", len(got), len(tc.want), got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("conflict[%d] = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
