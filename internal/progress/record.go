package progress

import "time"

const (
	// MaxHearts is the number of lives a learner holds on a full track.
	MaxHearts = 3

	// RegenInterval is the time it takes to regenerate one heart.
	RegenInterval = 20 * time.Second

	// StageReward is the number of credits earned by a correct stage answer.
	StageReward = 10
)

// StageStatus is the lock state of one stage within an interest track.
type StageStatus string

const (
	StageLocked    StageStatus = "locked"
	StagePlayable  StageStatus = "playable"
	StageCompleted StageStatus = "completed"
	StageBlocked   StageStatus = "blocked" // current stage, out of hearts
)

// DisplayName returns a human-readable label for the status.
func (s StageStatus) DisplayName() string {
	switch s {
	case StageLocked:
		return "Locked"
	case StagePlayable:
		return "Play"
	case StageCompleted:
		return "Completed"
	case StageBlocked:
		return "No hearts"
	default:
		return string(s)
	}
}

// Record is the progress of one interest track: the highest unlocked stage and
// the regenerating hearts. LastHeartLostAt is set iff Hearts < MaxHearts.
type Record struct {
	UnlockedStage   int
	Hearts          int
	LastHeartLostAt *time.Time
}

// NewRecord returns the record of a freshly selected interest.
func NewRecord() Record {
	return Record{UnlockedStage: 1, Hearts: MaxHearts}
}

func (r Record) clone() Record {
	if r.LastHeartLostAt != nil {
		t := *r.LastHeartLostAt
		r.LastHeartLostAt = &t
	}
	return r
}

// StageStatus returns the lock state of a 1-based stage index.
func (r Record) StageStatus(stage int) StageStatus {
	switch {
	case stage > r.UnlockedStage:
		return StageLocked
	case stage < r.UnlockedStage:
		return StageCompleted
	case r.Hearts <= 0:
		return StageBlocked
	default:
		return StagePlayable
	}
}

// CompletedStages returns how many stages of the track are done.
func (r Record) CompletedStages() int {
	if r.UnlockedStage < 1 {
		return 0
	}
	return r.UnlockedStage - 1
}

// Complete reports whether every one of totalStages has been passed.
func (r Record) Complete(totalStages int) bool {
	return totalStages > 0 && r.UnlockedStage > totalStages
}

// NextHeartIn returns the time left until the next heart regenerates,
// or 0 when hearts are full.
func (r Record) NextHeartIn(now time.Time) time.Duration {
	if r.Hearts >= MaxHearts || r.LastHeartLostAt == nil {
		return 0
	}
	d := r.LastHeartLostAt.Add(RegenInterval).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// completeStage unlocks the stage after stageID. Unlocks never move backwards.
func completeStage(r Record, stageID int) (Record, bool) {
	if stageID+1 <= r.UnlockedStage {
		return r, false
	}
	r.UnlockedStage = stageID + 1
	return r, true
}

// loseHeart removes one heart. The regeneration clock starts only on the
// transition from full to non-full; later losses leave it running.
func loseHeart(r Record, now time.Time) Record {
	r.Hearts--
	if r.Hearts < 0 {
		r.Hearts = 0
	}
	if r.Hearts < MaxHearts && r.LastHeartLostAt == nil {
		t := now
		r.LastHeartLostAt = &t
	}
	return r
}

// resetHearts refills hearts and stops the clock.
func resetHearts(r Record) Record {
	r.Hearts = MaxHearts
	r.LastHeartLostAt = nil
	return r
}

// Regenerate grants one heart per whole RegenInterval elapsed since the clock
// started. When hearts stay below MaxHearts the clock advances by exactly the
// consumed intervals so partial progress toward the next heart carries over.
// It returns the updated record and the number of hearts gained.
func Regenerate(r Record, now time.Time) (Record, int) {
	if r.Hearts >= MaxHearts || r.LastHeartLostAt == nil {
		return r, 0
	}

	whole := int(now.Sub(*r.LastHeartLostAt) / RegenInterval)
	if whole <= 0 {
		return r, 0
	}

	before := r.Hearts
	hearts := before + whole
	if hearts >= MaxHearts {
		r.Hearts = MaxHearts
		r.LastHeartLostAt = nil
		return r, MaxHearts - before
	}

	next := r.LastHeartLostAt.Add(time.Duration(whole) * RegenInterval)
	r.Hearts = hearts
	r.LastHeartLostAt = &next
	return r, whole
}
