package interests

// Stage is one unit of content and its check question within an interest track.
type Stage struct {
	ID           int
	Title        string
	VideoURL     string
	Question     string
	Options      []string
	CorrectIndex int
}

// IsCorrect reports whether the chosen option answers the stage question.
func (s Stage) IsCorrect(choice int) bool {
	return choice == s.CorrectIndex
}

// Catalog looks up stage content by interest and stage id.
type Catalog interface {
	// TotalStages returns the number of stages in the interest track, 0 if unknown.
	TotalStages(k Key) int

	// Stage returns the stage with the given 1-based id.
	Stage(k Key, id int) (Stage, bool)

	// Stages returns all stages of the track in order.
	Stages(k Key) []Stage
}

// StaticCatalog is an in-memory Catalog.
type StaticCatalog map[Key][]Stage

var _ Catalog = StaticCatalog(nil)

func (c StaticCatalog) TotalStages(k Key) int {
	return len(c[k])
}

func (c StaticCatalog) Stage(k Key, id int) (Stage, bool) {
	for _, s := range c[k] {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

func (c StaticCatalog) Stages(k Key) []Stage {
	return c[k]
}

// DefaultCatalog returns the built-in stage content for every interest.
func DefaultCatalog() StaticCatalog {
	return StaticCatalog{
		Sports: {
			{ID: 1, Title: "Warm Up", Question: "Why do athletes warm up before playing?",
				Options: []string{"To get tired faster", "To prepare muscles and avoid injury", "To look cool", "It is a rule"}, CorrectIndex: 1},
			{ID: 2, Title: "Teamwork", Question: "How many players does a soccer team have on the field?",
				Options: []string{"9", "10", "11", "12"}, CorrectIndex: 2},
			{ID: 3, Title: "Fair Play", Question: "What should you do after a match ends?",
				Options: []string{"Shake hands with the other team", "Leave quickly", "Argue with the referee", "Hide the ball"}, CorrectIndex: 0},
		},
		Science: {
			{ID: 1, Title: "States of Matter", Question: "What is ice?",
				Options: []string{"A gas", "A liquid", "A solid", "A plasma"}, CorrectIndex: 2},
			{ID: 2, Title: "Plants", Question: "What do plants need to make food?",
				Options: []string{"Sunlight", "Darkness", "Sand", "Salt"}, CorrectIndex: 0},
			{ID: 3, Title: "Our Planet", Question: "Which planet do we live on?",
				Options: []string{"Mars", "Venus", "Jupiter", "Earth"}, CorrectIndex: 3},
		},
		English: {
			{ID: 1, Title: "Nouns", Question: "Which word is a noun?",
				Options: []string{"Run", "Happy", "Table", "Quickly"}, CorrectIndex: 2},
			{ID: 2, Title: "Verbs", Question: "Which word is a verb?",
				Options: []string{"Jump", "Blue", "Chair", "Soft"}, CorrectIndex: 0},
			{ID: 3, Title: "Opposites", Question: "What is the opposite of 'hot'?",
				Options: []string{"Warm", "Cold", "Sunny", "Big"}, CorrectIndex: 1},
		},
		Creativity: {
			{ID: 1, Title: "Primary Colors", Question: "Which of these is a primary color?",
				Options: []string{"Green", "Orange", "Red", "Purple"}, CorrectIndex: 2},
			{ID: 2, Title: "Mixing Colors", Question: "What do blue and yellow make?",
				Options: []string{"Green", "Pink", "Brown", "White"}, CorrectIndex: 0},
			{ID: 3, Title: "Shapes", Question: "How many sides does a triangle have?",
				Options: []string{"2", "3", "4", "5"}, CorrectIndex: 1},
		},
		Social: {
			{ID: 1, Title: "Community Helpers", Question: "Who puts out fires?",
				Options: []string{"A chef", "A firefighter", "A pilot", "A farmer"}, CorrectIndex: 1},
			{ID: 2, Title: "Maps", Question: "What does a map show?",
				Options: []string{"Places", "Songs", "Recipes", "Weather only"}, CorrectIndex: 0},
			{ID: 3, Title: "Continents", Question: "How many continents are there?",
				Options: []string{"5", "6", "7", "8"}, CorrectIndex: 2},
		},
		Math: {
			{ID: 1, Title: "Addition", Question: "What is 7 + 5?",
				Options: []string{"11", "12", "13", "14"}, CorrectIndex: 1},
			{ID: 2, Title: "Subtraction", Question: "What is 15 - 8?",
				Options: []string{"6", "7", "8", "9"}, CorrectIndex: 1},
			{ID: 3, Title: "Multiplication", Question: "What is 6 × 4?",
				Options: []string{"20", "22", "24", "26"}, CorrectIndex: 2},
		},
	}
}
