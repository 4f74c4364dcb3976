package models

// ExerciseType classifies how an exercise is performed and whether it can be
// grouped with its neighbours into a circuit-style block.
type ExerciseType string

const (
	TypeStrength   ExerciseType = "Strength"
	TypeCircuit    ExerciseType = "Circuit"
	TypeCardio     ExerciseType = "Cardio"
	TypeTabata     ExerciseType = "Tabata"
	TypeBiserie    ExerciseType = "Biserie"
	TypeSuperserie ExerciseType = "Superserie"
)

// Groupable reports whether consecutive exercises of this type are performed
// back-to-back as one block (circuits, bi-series, super-series).
func (t ExerciseType) Groupable() bool {
	switch t {
	case TypeCircuit, TypeBiserie, TypeSuperserie:
		return true
	}
	return false
}

// SetRecord is one discrete unit of work: a rep set, a timed interval, or a
// round. Reps 0 means the set is not rep-based. Weight is free-form user
// input kept as a string; it is never parsed as a number.
type SetRecord struct {
	Reps      int    `json:"reps"`
	Weight    string `json:"weight,omitempty"`
	Completed bool   `json:"completed"`
}

// Exercise is one named movement within a day. SetsReps holds the original
// notation string and stays authoritative for re-deriving Sets and Timer.
type Exercise struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	SetsReps  string       `json:"sets_reps"`
	Sets      []SetRecord  `json:"sets"`
	Type      ExerciseType `json:"type"`
	Timer     *int         `json:"timer"` // seconds, nil when not time-based
	Completed bool         `json:"completed"`

	// Weight is the legacy single-value field kept for compatibility with
	// stored routines that predate per-set weights.
	Weight string `json:"weight,omitempty"`
	Notes  string `json:"notes,omitempty"`

	// PreviousWeights is populated from history when a workout session
	// starts. It is ephemeral and not meaningful in persisted routines.
	PreviousWeights []string `json:"previousWeights,omitempty"`
}

// AllSetsCompleted reports whether every set of the exercise is done.
// An exercise without sets is never auto-completed by this check.
func (e *Exercise) AllSetsCompleted() bool {
	if len(e.Sets) == 0 {
		return false
	}
	for _, s := range e.Sets {
		if !s.Completed {
			return false
		}
	}
	return true
}

// Day is one subdivision of a routine. Exercise order is significant: it
// determines grouping and progression order during a workout.
type Day struct {
	Day       int        `json:"day"`
	Focus     string     `json:"focus"`
	Exercises []Exercise `json:"exercises"`
}

// FindExercise returns the exercise with the given id, or nil.
func (d *Day) FindExercise(id string) *Exercise {
	for i := range d.Exercises {
		if d.Exercises[i].ID == id {
			return &d.Exercises[i]
		}
	}
	return nil
}

// Routine is the root aggregate: the full multi-day plan. A single instance
// is persisted as one blob and replaced wholesale on import.
type Routine struct {
	RoutineID string `json:"routine_id"`
	Days      []Day  `json:"days"`
}

// FindDay returns the day with the given number, or nil.
func (r *Routine) FindDay(day int) *Day {
	for i := range r.Days {
		if r.Days[i].Day == day {
			return &r.Days[i]
		}
	}
	return nil
}
