package rewards

var allGoodies = []Goodie{
	{ID: 50, Name: "Bronze Badge", Type: TypeBadge, Description: "Earned at 50 points", Icon: "🥉"},
	{ID: 100, Name: "Silver Badge", Type: TypeBadge, Description: "Earned at 100 points", Icon: "🥈"},
	{ID: 150, Name: "Gold Badge", Type: TypeBadge, Description: "Earned at 150 points", Icon: "🥇"},
	{ID: 200, Name: "Achiever Trophy", Type: TypeTrophy, Description: "Earned at 200 points", Icon: "🏆"},
	{ID: 250, Name: "Champion Trophy", Type: TypeTrophy, Description: "Earned at 250 points", Icon: "🏆"},
	{ID: 300, Name: "Master Trophy", Type: TypeTrophy, Description: "Earned at 300 points", Icon: "🏆"},
	{ID: 350, Name: "Star Sticker", Type: TypeSticker, Description: "Earned at 350 points", Icon: "⭐"},
	{ID: 400, Name: "Rocket Sticker", Type: TypeSticker, Description: "Earned at 400 points", Icon: "🚀"},
	{ID: 450, Name: "Brain Sticker", Type: TypeSticker, Description: "Earned at 450 points", Icon: "🧠"},
	{ID: 500, Name: "Robot Sticker", Type: TypeSticker, Description: "Earned at 500 points", Icon: "🤖"},
	{ID: 550, Name: "Cool Avatar", Type: TypeAvatar, Description: "Unlock a cool avatar (550 pts)", Icon: "🧑‍🎤"},
	{ID: 600, Name: "Smart Avatar", Type: TypeAvatar, Description: "Smart avatar (600 pts)", Icon: "🧑‍🏫"},
	{ID: 650, Name: "Ninja Avatar", Type: TypeAvatar, Description: "Ninja avatar (650 pts)", Icon: "🥷"},
	{ID: 700, Name: "Wizard Avatar", Type: TypeAvatar, Description: "Wizard avatar (700 pts)", Icon: "🧙"},
	{ID: 750, Name: "Pencil Pack", Type: TypeReal, Description: "Real-world: Pencil (750 pts)", Icon: "✏️"},
	{ID: 800, Name: "Notebook", Type: TypeReal, Description: "Real-world: Notebook (800 pts)", Icon: "📓"},
	{ID: 850, Name: "Drawing Kit", Type: TypeReal, Description: "Real-world: Drawing kit (850 pts)", Icon: "🎨"},
	{ID: 900, Name: "Gift Box", Type: TypeReal, Description: "Real-world: Gift Box (900 pts)", Icon: "🎁"},
	{ID: 1000, Name: "Mega Goodie Box", Type: TypeReal, Description: "Mega Goodie Box (1000 pts)", Icon: "🎉"},
}

// All returns every goodie ordered by threshold.
func All() []Goodie {
	return append([]Goodie(nil), allGoodies...)
}

// Find returns the goodie with the given id.
func Find(id int) (Goodie, bool) {
	for _, g := range allGoodies {
		if g.ID == id {
			return g, true
		}
	}
	return Goodie{}, false
}

// Unlocked returns the goodies reached with credits.
func Unlocked(credits int) []Goodie {
	var out []Goodie
	for _, g := range allGoodies {
		if credits >= g.Threshold() {
			out = append(out, g)
		}
	}
	return out
}

// Next returns the lowest goodie not yet reached.
func Next(credits int) (Goodie, bool) {
	for _, g := range allGoodies {
		if credits < g.Threshold() {
			return g, true
		}
	}
	return Goodie{}, false
}

// Crossed returns the first celebrated goodie whose threshold lies in
// (before, after].
func Crossed(before, after int) (Goodie, bool) {
	for _, g := range allGoodies {
		if g.Type.Celebrated() && before < g.Threshold() && after >= g.Threshold() {
			return g, true
		}
	}
	return Goodie{}, false
}
