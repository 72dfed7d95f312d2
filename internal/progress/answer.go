package progress

import (
	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/store"
)

// Outcome is the result of answering a stage question.
type Outcome struct {
	Interest      interests.Key
	StageID       int
	Correct       bool
	CreditsBefore int
	CreditsAfter  int
	Record        Record
}

// Earned returns the credits awarded by the answer.
func (o Outcome) Earned() int { return o.CreditsAfter - o.CreditsBefore }

// RecordAnswer applies the result of answering stageID of key. A correct
// answer awards StageReward credits and completes the stage; a wrong one
// costs a heart. Completed stages can be replayed. Both changes are
// persisted as one write.
func (e *Engine) RecordAnswer(key interests.Key, stageID int, correct bool) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLive(); err != nil {
		return Outcome{}, err
	}

	rec, ok := e.state.Progress[key]
	if !ok || !e.state.hasInterest(key) {
		return Outcome{}, ErrUnknownInterest
	}
	if _, ok := e.catalog.Stage(key, stageID); !ok {
		return Outcome{}, ErrUnknownStage
	}
	if rec.Hearts <= 0 {
		return Outcome{}, ErrNoHearts
	}
	if rec.StageStatus(stageID) == StageLocked {
		return Outcome{}, ErrStageLocked
	}

	out := Outcome{
		Interest:      key,
		StageID:       stageID,
		Correct:       correct,
		CreditsBefore: e.state.Credits,
	}

	var patch store.Patch
	if correct {
		e.state.Credits += StageReward
		e.observer.RecordCredits(StageReward)
		patch = e.state.creditsPatch()

		var changed bool
		rec, changed = completeStage(rec, stageID)
		if changed {
			e.observer.RecordStageCompleted(string(key))
		}
	} else {
		rec = loseHeart(rec, e.now())
		e.observer.RecordHeartLost(string(key))
	}
	e.state.Progress[key] = rec
	patch.Progress = e.state.progressEntries()
	e.enqueue(patch)

	out.CreditsAfter = e.state.Credits
	out.Record = rec.clone()
	return out, nil
}
