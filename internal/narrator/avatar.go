package narrator

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var avatarFaces = map[Mood][]string{
	MoodIdle: {
		`   .---.   `,
		`  | o o |  `,
		`  |  -  |  `,
		`   '---'   `,
	},
	MoodThinking: {
		`   .---.   `,
		`  | - - |  `,
		`  |  ~  |  `,
		`   '---'   `,
	},
	MoodSuccess: {
		`   .---.   `,
		`  | ^ ^ |  `,
		`  | \_/ |  `,
		`   '---'   `,
	},
	MoodError: {
		`   .---.   `,
		`  | x x |  `,
		`  |  n  |  `,
		`   '---'   `,
	},
}

var avatarMoodColors = map[Mood]lipgloss.Color{
	MoodIdle:     lipgloss.Color("#c7d2fe"),
	MoodThinking: lipgloss.Color("#a78bfa"),
	MoodSuccess:  lipgloss.Color("#a3be8c"),
	MoodError:    lipgloss.Color("#bf616a"),
}

var speechBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#4f46e5")).
	Padding(0, 1)

// RenderAvatar draws the robot presenter with the mood's face over a speech
// box holding the (usually typewriter-revealed) message. Pure function of its
// inputs.
func RenderAvatar(message string, mood Mood, width int) string {
	if width < 16 {
		width = 16
	}
	face, ok := avatarFaces[mood]
	if !ok {
		face = avatarFaces[MoodIdle]
	}
	faceStyle := lipgloss.NewStyle().Bold(true).Foreground(avatarMoodColors[mood])
	art := faceStyle.Render(strings.Join(face, "\n"))

	wrapped := wordwrap.String(message, width-4)
	box := speechBoxStyle.Width(width - 2).Render(wrapped + "▌")

	head := lipgloss.PlaceHorizontal(width, lipgloss.Center, art)
	return lipgloss.JoinVertical(lipgloss.Left, head, box)
}
