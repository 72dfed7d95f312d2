package interests

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoAnswers is returned when a categorizer receives nothing to score.
var ErrNoAnswers = errors.New("no quiz answers")

// Answer is a learner's pick for one interest-quiz question.
type Answer struct {
	QuestionID string `json:"questionId"`
	Option     int    `json:"option"`
}

// Categorizer turns interest-quiz answers into suggested interest keys.
type Categorizer interface {
	Categorize(answers []Answer) ([]Key, error)
}

// QuizOption is one choice of an interest-quiz question.
type QuizOption struct {
	Text     string
	Category Key
}

// QuizQuestion is one interest-quiz question.
type QuizQuestion struct {
	ID       string
	Question string
	Options  []QuizOption
}

// TallyCategorizer scores answers by counting the category of each chosen option.
type TallyCategorizer struct {
	Questions []QuizQuestion
	// Max is the number of keys returned (default 3).
	Max int
}

var _ Categorizer = (*TallyCategorizer)(nil)

// NewTallyCategorizer creates a categorizer over the built-in interest quiz.
func NewTallyCategorizer() *TallyCategorizer {
	return &TallyCategorizer{Questions: DefaultQuiz(), Max: 3}
}

// Categorize returns the most chosen categories, highest count first. Ties are
// broken by display order. Fewer than two distinct categories yields a short
// result; callers validate the size through the selection rules.
func (c *TallyCategorizer) Categorize(answers []Answer) ([]Key, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	byID := make(map[string]QuizQuestion, len(c.Questions))
	for _, q := range c.Questions {
		byID[q.ID] = q
	}

	counts := make(map[Key]int)
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("unknown question %q", a.QuestionID)
		}
		if a.Option < 0 || a.Option >= len(q.Options) {
			return nil, fmt.Errorf("question %q: option %d out of range", a.QuestionID, a.Option)
		}
		counts[q.Options[a.Option].Category]++
	}

	order := make(map[Key]int)
	for i, k := range All() {
		order[k] = i
	}
	keys := make([]Key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return order[keys[i]] < order[keys[j]]
	})

	limit := c.Max
	if limit <= 0 {
		limit = 3
	}
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys, nil
}

// DefaultQuiz returns the built-in interest-discovery quiz.
func DefaultQuiz() []QuizQuestion {
	return []QuizQuestion{
		{ID: "q1", Question: "When you have free time, you'd rather...", Options: []QuizOption{
			{"Play or watch a sport", Sports},
			{"Do a puzzle or brain-teaser", Math},
			{"Read a book or write a story", English},
			{"Draw, paint, or create something new", Creativity},
		}},
		{ID: "q2", Question: "Which school subject do you enjoy the most?", Options: []QuizOption{
			{"Physical Education", Sports},
			{"Science class (Biology, Chemistry)", Science},
			{"History or Geography", Social},
			{"Art or Music", Creativity},
		}},
		{ID: "q3", Question: "You are at a museum. Which exhibit do you visit first?", Options: []QuizOption{
			{"The history of ancient civilizations", Social},
			{"The interactive physics and space exhibit", Science},
			{"The modern art gallery", Creativity},
			{"The evolution of language exhibit", English},
		}},
		{ID: "q4", Question: "If you were to watch a documentary, it would be about...", Options: []QuizOption{
			{"A famous athlete or sports team", Sports},
			{"The wonders of the natural world", Science},
			{"How numbers shape our world", Math},
			{"The life of a famous writer or poet", English},
		}},
		{ID: "q5", Question: "Which of these activities sounds most appealing?", Options: []QuizOption{
			{"Joining a debate club", English},
			{"Building a robot for a competition", Science},
			{"Organizing a community event", Social},
			{"Solving complex logic puzzles", Math},
		}},
		{ID: "q6", Question: "What kind of games do you prefer?", Options: []QuizOption{
			{"Team-based sports games", Sports},
			{"Strategy and number games like Sudoku", Math},
			{"Word games like Scrabble or crosswords", English},
			{"Role-playing or world-building games", Social},
		}},
	}
}
