package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nkale/storyreel/internal/narrator"
	"github.com/nkale/storyreel/internal/storyboard"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8b5cf6"))

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280"))

	promptLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#e5e7eb"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.Copy().
				BorderForeground(lipgloss.Color("#8b5cf6"))

	sceneNumberStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a78bfa"))

	promptTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af")).
			Italic(true)

	readyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a3be8c"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ebcb8b"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bf616a"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#88c0d0"))

	legendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4b5563"))

	choiceStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedChoiceStyle = lipgloss.NewStyle().
				PaddingLeft(0).
				Bold(true).
				Foreground(lipgloss.Color("#c4b5fd"))

	stillBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)
)

func (m *model) View() string {
	main := m.mainPanel()
	avatar := narrator.RenderAvatar(m.typer.View(), m.narration.Mood, avatarPanelWidth)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(avatarPanelWidth).MarginRight(2).Render(avatar),
		main,
	)

	var b strings.Builder
	b.WriteString(titleStyle.Render(heroTitle))
	b.WriteString("  ")
	b.WriteString(taglineStyle.Render(heroTagline))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.errorMessage != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMessage))
		b.WriteString("\n")
	}
	if m.infoMessage != "" {
		b.WriteString(infoStyle.Render(m.infoMessage))
		b.WriteString("\n")
	}
	b.WriteString(legendStyle.Render(m.legend()))
	return b.String()
}

func (m *model) mainWidth() int {
	w := m.width - avatarPanelWidth - 4
	if w < minMainWidth {
		w = minMainWidth
	}
	return w
}

func (m *model) mainPanel() string {
	switch m.stage {
	case stageIdea:
		return m.ideaPanel()
	case stageChoices:
		return m.choicesPanel()
	case stageBoard:
		return m.boardPanel()
	case stagePromptEdit:
		return m.promptEditPanel()
	case stageEdit:
		return m.editPanel()
	default:
		return ""
	}
}

func (m *model) ideaPanel() string {
	var b strings.Builder
	b.WriteString(promptLabelStyle.Render("Your story idea"))
	b.WriteString("\n\n")
	b.WriteString(m.ideaInput.View())
	if m.refining {
		b.WriteString("\n\n")
		b.WriteString(pendingStyle.Render(m.spinner.View() + "Refining your idea..."))
	}
	return b.String()
}

func (m *model) choicesPanel() string {
	var b strings.Builder
	b.WriteString(promptLabelStyle.Render("Pick a direction"))
	b.WriteString("\n\n")
	width := m.mainWidth()
	for i, candidate := range m.candidates {
		label := wordwrap.String(candidate, width-4)
		if i == m.candidateCursor {
			b.WriteString(selectedChoiceStyle.Render("▸ " + label))
		} else {
			b.WriteString(choiceStyle.Render(label))
		}
		b.WriteString("\n\n")
	}
	if m.planning {
		b.WriteString(pendingStyle.Render(m.spinner.View() + "Building the storyboard..."))
	}
	return b.String()
}

func (m *model) boardPanel() string {
	scenes := m.board.Scenes()
	if len(scenes) == 0 {
		return taglineStyle.Render("No storyboard yet.")
	}
	width := m.mainWidth()
	parts := make([]string, 0, len(scenes)+1)
	if m.idea != "" {
		parts = append(parts, taglineStyle.Render(wordwrap.String(m.idea, width)))
	}
	for i, scene := range scenes {
		parts = append(parts, m.sceneCard(scene, width, i == m.sceneCursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *model) sceneCard(scene storyboard.Scene, width int, selected bool) string {
	inner := width - 4
	var b strings.Builder
	b.WriteString(sceneNumberStyle.Render(fmt.Sprintf("Scene %d", scene.Ordinal)))
	b.WriteString("\n")
	b.WriteString(wordwrap.String(scene.Description, inner))
	b.WriteString("\n")
	b.WriteString(promptTextStyle.Render(wordwrap.String(scene.Prompt, inner)))
	b.WriteString("\n")
	b.WriteString(m.sceneStatusLine(scene))

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(width - 2).Render(b.String())
}

func (m *model) sceneStatusLine(scene storyboard.Scene) string {
	switch {
	case scene.Status == storyboard.StatusPending:
		return pendingStyle.Render(m.spinner.View() + scene.StatusDetail)
	case scene.Status == storyboard.StatusFailed:
		return errorStyle.Render("✗ " + scene.LastError)
	case scene.Video != nil:
		return readyStyle.Render(fmt.Sprintf("● video ready (%s, %d KB)",
			scene.Video.MIMEType, len(scene.Video.Data)/1024))
	default:
		return taglineStyle.Render("○ no video yet")
	}
}

func (m *model) promptEditPanel() string {
	var b strings.Builder
	scenes := m.board.Scenes()
	if m.sceneCursor < len(scenes) {
		b.WriteString(promptLabelStyle.Render(
			fmt.Sprintf("Edit prompt for scene %d", scenes[m.sceneCursor].Ordinal)))
	} else {
		b.WriteString(promptLabelStyle.Render("Edit prompt"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.promptInput.View())
	return b.String()
}

func (m *model) editPanel() string {
	session := m.editing
	if session == nil {
		return ""
	}
	width := m.mainWidth()
	var b strings.Builder
	b.WriteString(promptLabelStyle.Render("Frame editor"))
	b.WriteString("\n\n")
	switch {
	case session.capturing:
		b.WriteString(pendingStyle.Render(m.spinner.View() + "Capturing a frame from the video..."))
	case session.applying:
		b.WriteString(stillBoxStyle.Render(describeStill(session, width-6)))
		b.WriteString("\n\n")
		b.WriteString(pendingStyle.Render(m.spinner.View() + "Applying your edit..."))
	default:
		b.WriteString(stillBoxStyle.Render(describeStill(session, width-6)))
		b.WriteString("\n\n")
		b.WriteString(promptLabelStyle.Render("Describe your edit"))
		b.WriteString("\n")
		b.WriteString(m.editInput.View())
	}
	return b.String()
}

// describeStill summarizes the captured and edited frames. The terminal can't
// show the pixels, so sizes stand in for a preview.
func describeStill(session *editSession, width int) string {
	captured := fmt.Sprintf("captured frame: %s, %d KB",
		session.still.MIMEType, len(session.still.Data)/1024)
	if session.edited == nil {
		return wordwrap.String(captured, width)
	}
	edited := fmt.Sprintf("edited frame:   %s, %d KB",
		session.edited.MIMEType, len(session.edited.Data)/1024)
	return wordwrap.String(captured+"\n"+edited, width)
}

func (m *model) legend() string {
	switch m.stage {
	case stageIdea:
		return "enter refine · esc quit"
	case stageChoices:
		return "↑/↓ select · enter storyboard · esc back"
	case stageBoard:
		return "↑/↓ select · g generate · a generate all · e edit prompt · f edit frame · r start over · esc quit"
	case stagePromptEdit:
		return "enter save · esc cancel"
	case stageEdit:
		if m.editing != nil && m.editing.edited != nil {
			return "enter apply edit · ctrl+p regenerate video from edit · esc back"
		}
		return "enter apply edit · esc back"
	default:
		return ""
	}
}
