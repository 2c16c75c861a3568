package services

import "github.com/yungbote/moodcare-backend/internal/types"

// FallbackStory is served whenever generation fails and doubles as the
// public story library catalog.
type FallbackStory struct {
	StoryType types.StoryType `json:"story_type"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Choices   []string        `json:"choices"`
}

const fallbackClosing = "You take a slow breath and let the story settle. " +
	"Whatever you carried into it feels a little lighter now, and you know you can return whenever you need to."

var fallbackStories = map[types.StoryType]FallbackStory{
	types.StoryHealing: {
		StoryType: types.StoryHealing,
		Title:     "The Quiet Garden",
		Content: "Beyond a low stone wall you find a garden that seems to have been waiting for you. " +
			"The air smells of rain and lavender, and a narrow path winds between beds of flowers you half remember from somewhere kind. " +
			"A wooden bench sits under an old willow, and as you rest there, the tightness you carried begins to loosen, petal by petal.",
		Choices: []string{
			"Follow the path deeper into the garden",
			"Stay on the bench and watch the light change",
			"Tend to a wilting flower near the wall",
		},
	},
	types.StoryAdventure: {
		StoryType: types.StoryAdventure,
		Title:     "The Lantern Ferry",
		Content: "At dusk a small ferry lit by paper lanterns pulls up to the dock where you stand. " +
			"The ferryman tips his hat and says the river runs wherever you need it to run tonight. " +
			"As the shore slips away, islands appear out of the mist, each one glowing with a different color of light.",
		Choices: []string{
			"Ask the ferryman about the golden island",
			"Steer toward the sound of distant music",
			"Drop a lantern into the water and follow its drift",
		},
	},
	types.StoryMeditation: {
		StoryType: types.StoryMeditation,
		Title:     "Breathing with the Tide",
		Content: "You sit on warm sand as the tide breathes in and out before you. " +
			"Each wave arrives without hurry and leaves without regret. " +
			"You let your breath fall into the same rhythm, in with the wave, out with the foam, until there is nothing left to do but be here.",
		Choices: []string{
			"Count ten more breaths with the waves",
			"Walk slowly along the waterline",
			"Close your eyes and listen to the gulls",
		},
	},
	types.StoryFantasy: {
		StoryType: types.StoryFantasy,
		Title:     "The Library of Unwritten Days",
		Content: "A door you have never noticed opens onto a library where the books write themselves as days are lived. " +
			"A librarian with ink-stained fingers hands you a volume with your name on the spine, its later chapters still blank. " +
			"\"The pen is yours,\" she says, \"but the margins are full of help, if you look.\"",
		Choices: []string{
			"Read the chapter about tomorrow",
			"Ask the librarian about the margin notes",
			"Leave a message for a future reader",
		},
	},
	types.StoryPersonal: {
		StoryType: types.StoryPersonal,
		Title:     "A Letter from Yourself",
		Content: "The envelope on the table is addressed in your own handwriting, postmarked from a year you haven't reached yet. " +
			"Inside, the letter doesn't scold or warn. It simply lists the small things that turned out to matter: the walks, the calls you almost didn't make, the mornings you chose to begin again.",
		Choices: []string{
			"Write a reply to your future self",
			"Reread the list of small things",
			"Fold the letter and carry it with you",
		},
	},
}

// StoryLibrary returns the catalog in a stable order.
func StoryLibrary() []FallbackStory {
	order := []types.StoryType{
		types.StoryHealing,
		types.StoryAdventure,
		types.StoryMeditation,
		types.StoryFantasy,
		types.StoryPersonal,
	}
	out := make([]FallbackStory, 0, len(order))
	for _, t := range order {
		out = append(out, fallbackStories[t])
	}
	return out
}

func fallbackStoryFor(t types.StoryType) FallbackStory {
	if s, ok := fallbackStories[t]; ok {
		return s
	}
	return fallbackStories[types.StoryHealing]
}
