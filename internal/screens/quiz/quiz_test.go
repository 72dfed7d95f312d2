package quiz

import (
	"reflect"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/router"
)

func down() tea.KeyPressMsg  { return tea.KeyPressMsg{Code: tea.KeyDown} }
func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

func runSequence(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	msg := cmd()
	// tea.Sequence hides its command list behind an unexported slice type.
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice {
		t.Fatalf("expected a command sequence, got %T", msg)
	}
	var out []tea.Msg
	for i := 0; i < v.Len(); i++ {
		if c, ok := v.Index(i).Interface().(tea.Cmd); ok && c != nil {
			out = append(out, c())
		}
	}
	return out
}

func TestQuizCollectsAnswersAndSuggests(t *testing.T) {
	questions := interests.DefaultQuiz()
	s := New(questions, interests.NewTallyCategorizer())

	var cmd tea.Cmd
	for i := range questions {
		// Sports is picked on q1, q4 and q6; q2 takes its second option.
		if i == 1 {
			s.Update(down())
		}
		_, cmd = s.Update(enter())
	}

	answers := s.Answers()
	if len(answers) != len(questions) {
		t.Fatalf("got %d answers, want %d", len(answers), len(questions))
	}
	if answers[1].Option != 1 {
		t.Errorf("answer 2 option = %d, want 1", answers[1].Option)
	}
	if cmd == nil {
		t.Fatal("expected a command after the last answer")
	}

	msgs := runSequence(t, cmd)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if _, ok := msgs[0].(router.PopScreenMsg); !ok {
		t.Errorf("first message = %T, want PopScreenMsg", msgs[0])
	}
	sugg, ok := msgs[1].(SuggestionMsg)
	if !ok {
		t.Fatalf("second message = %T, want SuggestionMsg", msgs[1])
	}
	if len(sugg.Keys) == 0 || sugg.Keys[0] != interests.Sports {
		t.Errorf("suggestion = %v, want sports first", sugg.Keys)
	}
}

type failingCategorizer struct{}

func (failingCategorizer) Categorize([]interests.Answer) ([]interests.Key, error) {
	return nil, interests.ErrNoAnswers
}

func TestQuizShowsCategorizerError(t *testing.T) {
	questions := interests.DefaultQuiz()[:1]
	s := New(questions, failingCategorizer{})

	_, cmd := s.Update(enter())
	if cmd != nil {
		t.Error("failed categorization should not pop the quiz")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
}
