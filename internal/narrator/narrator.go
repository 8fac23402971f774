// Package narrator provides the avatar's commentary: a (message, mood) pair
// updated by every flow, the rotating loading messages shown while a video
// renders, and the typewriter reveal used by the presenter.
package narrator

// Mood selects one of the avatar's fixed illustrative states.
type Mood int

const (
	MoodIdle Mood = iota
	MoodThinking
	MoodSuccess
	MoodError
)

func (m Mood) String() string {
	switch m {
	case MoodThinking:
		return "thinking"
	case MoodSuccess:
		return "success"
	case MoodError:
		return "error"
	default:
		return "idle"
	}
}

// Narration is the shared status pair. Latest write wins; there is no other
// validation.
type Narration struct {
	Message string
	Mood    Mood
}

var (
	Welcome          = Narration{"Welcome! Let's create a story. What's your idea?", MoodIdle}
	Brainstorming    = Narration{"Let's brainstorm! Thinking of some creative twists for you...", MoodThinking}
	ChooseDirection  = Narration{"Here are a few different angles on your story. Which one sparks your imagination?", MoodSuccess}
	RefineFailed     = Narration{"Oh no, my circuits got crossed. Could you try refining that idea again?", MoodError}
	BackToIdea       = Narration{"Let's try that again. What's your core idea?", MoodIdle}
	PlanningScenes   = Narration{"Great choice! Let's break this down into scenes. This is where the magic begins!", MoodThinking}
	BoardReady       = Narration{"Your storyboard is ready! You can tweak the prompts or generate the videos directly.", MoodSuccess}
	BoardFailed      = Narration{"Hmm, I couldn't seem to create the storyboard. Let's try again with that idea.", MoodError}
	RenderingScene   = Narration{"Action! I'm rendering the video for this scene now. This part can take a few minutes, so hang tight!", MoodThinking}
	SceneDone        = Narration{"And... cut! That's a wrap for this scene. It's ready to view.", MoodSuccess}
	SceneFailed      = Narration{"Looks like there was a glitch in the render farm. The video for that scene failed.", MoodError}
	GenerateAllStart = Narration{"Beginning the full sequence generation! This is the big one, so it'll take a while. Perfect time for a coffee!", MoodThinking}
	EditingSuite     = Narration{"Entering the editing suite! What changes do you want to see in this frame?", MoodIdle}
	BackToBoard      = Narration{"Back to the storyboard. What's next?", MoodIdle}
	ApplyingEdit     = Narration{"Applying your edits now. Let's see how it turns out!", MoodThinking}
	EditReady        = Narration{"Tada! Here's the edited frame. Like it?", MoodSuccess}
	EditFailed       = Narration{"I couldn't quite get that edit right. Maybe try a different prompt?", MoodError}
	EditNothingCame  = Narration{"Hmm, no edited frame came back that time. Maybe word it differently?", MoodIdle}
	PromotingEdit    = Narration{"Taking the edited frame and creating a new video. Here we go!", MoodThinking}
	FreshStart       = Narration{"Back to the drawing board! What's our next big idea?", MoodIdle}
)

// LoadingMessages rotate on the scene card while a video job is outstanding.
var LoadingMessages = []string{
	"Warming up the AI engine...",
	"Brewing some creativity...",
	"Directing the digital actors...",
	"Rendering pixels into motion...",
	"This can take a few minutes...",
	"Polishing the final cut...",
	"Almost there, hold tight!",
}

// FirstLoadingMessage seeds a scene entering the pending state.
func FirstLoadingMessage() string {
	return LoadingMessages[0]
}

// NextLoadingMessage cycles through the fixed list, restarting from the top
// when the current message is unknown or last.
func NextLoadingMessage(current string) string {
	for i, msg := range LoadingMessages {
		if msg == current {
			return LoadingMessages[(i+1)%len(LoadingMessages)]
		}
	}
	return LoadingMessages[0]
}
