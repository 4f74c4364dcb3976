package workout

import (
	"testing"

	"github.com/claude/rutina/internal/models"
)

func ex(id string, typ models.ExerciseType) models.Exercise {
	return models.Exercise{ID: id, Name: id, Type: typ}
}

func TestGroupExercises(t *testing.T) {
	tests := []struct {
		name      string
		exercises []models.Exercise
		want      [][]string
	}{
		{
			name: "strength exercises stay singletons",
			exercises: []models.Exercise{
				ex("a", models.TypeStrength),
				ex("b", models.TypeStrength),
			},
			want: [][]string{{"a"}, {"b"}},
		},
		{
			name: "contiguous biserie run forms one group",
			exercises: []models.Exercise{
				ex("a", models.TypeStrength),
				ex("b", models.TypeBiserie),
				ex("c", models.TypeBiserie),
				ex("d", models.TypeStrength),
			},
			want: [][]string{{"a"}, {"b", "c"}, {"d"}},
		},
		{
			name: "different groupable type breaks the run",
			exercises: []models.Exercise{
				ex("a", models.TypeBiserie),
				ex("b", models.TypeBiserie),
				ex("c", models.TypeSuperserie),
				ex("d", models.TypeSuperserie),
			},
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "non-groupable gap splits same type into two groups",
			exercises: []models.Exercise{
				ex("a", models.TypeCircuit),
				ex("b", models.TypeStrength),
				ex("c", models.TypeCircuit),
			},
			want: [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name: "cardio and tabata are not groupable",
			exercises: []models.Exercise{
				ex("a", models.TypeCardio),
				ex("b", models.TypeCardio),
				ex("c", models.TypeTabata),
			},
			want: [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name: "trailing run is flushed",
			exercises: []models.Exercise{
				ex("a", models.TypeStrength),
				ex("b", models.TypeCircuit),
				ex("c", models.TypeCircuit),
			},
			want: [][]string{{"a"}, {"b", "c"}},
		},
		{
			name:      "empty list",
			exercises: nil,
			want:      nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			groups := GroupExercises(tc.exercises)
			if len(groups) != len(tc.want) {
				t.Fatalf("got %d groups, want %d: %+v", len(groups), len(tc.want), groups)
			}
			for i, g := range groups {
				if len(g) != len(tc.want[i]) {
					t.Fatalf("group %d has %d members, want %d", i, len(g), len(tc.want[i]))
				}
				for j, member := range g {
					if member.ID != tc.want[i][j] {
						t.Errorf("group %d member %d = %q, want %q", i, j, member.ID, tc.want[i][j])
					}
				}
			}
		})
	}
}
