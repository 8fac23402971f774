package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nkale/storyreel/internal/frame"
	"github.com/nkale/storyreel/internal/gen"
	"github.com/nkale/storyreel/internal/narrator"
	"github.com/nkale/storyreel/internal/storyboard"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Client         gen.Client
	PollInterval   time.Duration
	TickerInterval time.Duration
	TypeSpeed      time.Duration
	CaptureFrame   func(context.Context, []byte) (frame.Still, error)
	Logger         zerolog.Logger
	// Context bounds all background jobs; canceling it stops in-flight
	// generation work, including video polling. Defaults to Background.
	Context context.Context
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.PollInterval <= 0 {
		config.PollInterval = gen.DefaultPollInterval
	}
	if config.TickerInterval <= 0 {
		config.TickerInterval = defaultTickerInterval
	}
	if config.TypeSpeed <= 0 {
		config.TypeSpeed = narrator.DefaultTypeSpeed
	}
	if config.CaptureFrame == nil {
		config.CaptureFrame = frame.Capture
	}

	ideaInput := textinput.New()
	ideaInput.Placeholder = "e.g., A robot explorer discovering a glowing forest on a distant planet."
	ideaInput.CharLimit = 280
	ideaInput.Width = 70
	ideaInput.Focus()

	promptInput := textinput.New()
	promptInput.CharLimit = 400
	promptInput.Width = 70

	editInput := textinput.New()
	editInput.Placeholder = "e.g., add a small, friendly robot next to the tree"
	editInput.CharLimit = 280
	editInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &model{
		config:      config,
		stage:       stageIdea,
		ideaInput:   ideaInput,
		promptInput: promptInput,
		editInput:   editInput,
		spinner:     spin,
		board:       storyboard.New(),
		tickerSeq:   map[string]int{},
		jobs:        newJobBus(config.Context, config.Logger),
		width:       100,
		height:      32,
	}
	m.narration = narrator.Welcome
	m.typer.SetText(m.narration.Message)
	return m
}

type model struct {
	config Config
	stage  stage

	ideaInput   textinput.Model
	promptInput textinput.Model
	editInput   textinput.Model
	spinner     spinner.Model

	idea            string
	candidates      []string
	candidateCursor int

	board       *storyboard.Board
	sceneCursor int

	refining bool
	planning bool

	// tickerSeq maps scene id to the live ticker generation; bumping the
	// number is how a ticker gets canceled.
	tickerSeq     map[string]int
	generateQueue []string

	editing *editSession

	narration    narrator.Narration
	typer        narrator.Typewriter
	typingActive bool

	errorMessage string
	infoMessage  string

	jobs *jobBus

	width  int
	height int
}

func (m *model) Init() tea.Cmd {
	m.typingActive = true
	return tea.Batch(textinput.Blink, m.typeTick())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.spinnerNeeded() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case typeTickMsg:
		if m.typer.Done() {
			m.typingActive = false
			return m, nil
		}
		m.typer.Advance()
		return m, m.typeTick()
	case sceneTickMsg:
		return m.handleSceneTick(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case jobSignalMsg:
		return m, nil
	case jobResultEnvelope:
		return m.Update(msg.Payload)
	case refineResultMsg:
		return m.handleRefineResult(msg)
	case planResultMsg:
		return m.handlePlanResult(msg)
	case videoResultMsg:
		return m.handleVideoResult(msg)
	case frameResultMsg:
		return m.handleFrameResult(msg)
	case editResultMsg:
		return m.handleEditResult(msg)
	}
	// Everything else (cursor blinks and the like) goes to the focused input.
	return m, m.updateFocusedInput(msg)
}

func (m *model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.stage {
	case stageIdea:
		m.ideaInput, cmd = m.ideaInput.Update(msg)
	case stagePromptEdit:
		m.promptInput, cmd = m.promptInput.Update(msg)
	case stageEdit:
		m.editInput, cmd = m.editInput.Update(msg)
	}
	return cmd
}

func (m *model) spinnerNeeded() bool {
	if m.refining || m.planning || m.board.AnyPending() {
		return true
	}
	return m.editing != nil && (m.editing.capturing || m.editing.applying)
}

// narrate updates the status channel and restarts the typewriter reveal. The
// returned command arms the tick chain only when none is already running, so
// there is never more than one chain alive.
func (m *model) narrate(n narrator.Narration) tea.Cmd {
	m.narration = n
	m.typer.SetText(n.Message)
	if m.typingActive {
		return nil
	}
	m.typingActive = true
	return m.typeTick()
}

func (m *model) typeTick() tea.Cmd {
	return tea.Tick(m.config.TypeSpeed, func(time.Time) tea.Msg {
		return typeTickMsg{}
	})
}

func (m *model) sceneTick(sceneID string, seq int) tea.Cmd {
	return tea.Tick(m.config.TickerInterval, func(time.Time) tea.Msg {
		return sceneTickMsg{sceneID: sceneID, seq: seq}
	})
}

// startSceneTicker supersedes any previous ticker for the scene and arms a
// fresh one.
func (m *model) startSceneTicker(sceneID string) tea.Cmd {
	m.tickerSeq[sceneID]++
	return m.sceneTick(sceneID, m.tickerSeq[sceneID])
}

// stopSceneTicker invalidates the live ticker; its pending tick arrives with a
// stale generation and is dropped.
func (m *model) stopSceneTicker(sceneID string) {
	m.tickerSeq[sceneID]++
}

func (m *model) handleSceneTick(msg sceneTickMsg) (tea.Model, tea.Cmd) {
	if m.tickerSeq[msg.sceneID] != msg.seq {
		return m, nil
	}
	scene, ok := m.board.Get(msg.sceneID)
	if !ok || scene.Status != storyboard.StatusPending {
		return m, nil
	}
	m.board.SetDetail(msg.sceneID, narrator.NextLoadingMessage(scene.StatusDetail))
	return m, m.sceneTick(msg.sceneID, msg.seq)
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageIdea:
		return m.handleIdeaKey(key)
	case stageChoices:
		return m.handleChoicesKey(key)
	case stageBoard:
		return m.handleBoardKey(key)
	case stagePromptEdit:
		return m.handlePromptEditKey(key)
	case stageEdit:
		return m.handleEditKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleIdeaKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyEsc {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.ideaInput, cmd = m.ideaInput.Update(key)
	if key.Type != tea.KeyEnter {
		return m, cmd
	}
	idea := strings.TrimSpace(m.ideaInput.Value())
	if idea == "" {
		m.errorMessage = "Please enter a story idea to refine."
		return m, cmd
	}
	if m.config.Client == nil {
		m.errorMessage = "Set GEMINI_API_KEY to enable generation."
		return m, cmd
	}
	if m.refining {
		m.infoMessage = "Still brainstorming the last idea."
		return m, cmd
	}
	m.idea = idea
	m.refining = true
	m.errorMessage = ""
	m.candidates = nil
	return m, tea.Batch(cmd, m.spinner.Tick,
		m.narrate(narrator.Brainstorming),
		m.jobs.Start(jobKindRefine, refineIdeaJob(m.config.Client, idea)))
}

func (m *model) handleChoicesKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.candidateCursor > 0 {
			m.candidateCursor--
		}
	case "down", "j":
		if m.candidateCursor < len(m.candidates)-1 {
			m.candidateCursor++
		}
	case "enter":
		if m.planning {
			m.infoMessage = "Storyboard generation already running."
			return m, nil
		}
		if len(m.candidates) == 0 {
			return m, nil
		}
		idea := m.candidates[m.candidateCursor]
		m.planning = true
		m.errorMessage = ""
		m.idea = idea
		return m, tea.Batch(m.spinner.Tick,
			m.narrate(narrator.PlanningScenes),
			m.jobs.Start(jobKindPlan, planScenesJob(m.config.Client, idea)))
	case "esc", "b":
		m.candidates = nil
		m.candidateCursor = 0
		m.stage = stageIdea
		m.ideaInput.Focus()
		return m, m.narrate(narrator.BackToIdea)
	}
	return m, nil
}

func (m *model) handleBoardKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	scenes := m.board.Scenes()
	switch key.String() {
	case "up", "k":
		if m.sceneCursor > 0 {
			m.sceneCursor--
		}
	case "down", "j":
		if m.sceneCursor < len(scenes)-1 {
			m.sceneCursor++
		}
	case "g", "enter":
		if len(scenes) == 0 {
			return m, nil
		}
		return m.requestVideo(scenes[m.sceneCursor].ID, nil, true)
	case "a":
		return m.startGenerateAll()
	case "e":
		if len(scenes) == 0 {
			return m, nil
		}
		scene := scenes[m.sceneCursor]
		m.stage = stagePromptEdit
		m.promptInput.SetValue(scene.Prompt)
		m.promptInput.Focus()
		m.infoMessage = ""
		return m, textinput.Blink
	case "f":
		if len(scenes) == 0 {
			return m, nil
		}
		return m.openEditor(scenes[m.sceneCursor])
	case "r":
		if m.board.AnyPending() {
			m.infoMessage = "Wait for the running scenes to finish before starting over."
			return m, nil
		}
		m.board.Reset()
		m.generateQueue = nil
		m.candidates = nil
		m.candidateCursor = 0
		m.sceneCursor = 0
		m.idea = ""
		m.ideaInput.SetValue("")
		m.ideaInput.Focus()
		m.errorMessage = ""
		m.infoMessage = ""
		m.stage = stageIdea
		return m, m.narrate(narrator.FreshStart)
	case "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handlePromptEditKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyEsc {
		m.stage = stageBoard
		m.promptInput.Blur()
		m.infoMessage = "Prompt unchanged."
		return m, nil
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(key)
	if key.Type != tea.KeyEnter {
		return m, cmd
	}
	value := strings.TrimSpace(m.promptInput.Value())
	m.stage = stageBoard
	m.promptInput.Blur()
	if value == "" {
		m.infoMessage = "Empty prompt discarded."
		return m, cmd
	}
	scenes := m.board.Scenes()
	if m.sceneCursor < len(scenes) {
		m.board.SetPrompt(scenes[m.sceneCursor].ID, value)
		m.infoMessage = "Prompt updated. Existing video stays until you regenerate."
	}
	return m, cmd
}

func (m *model) handleEditKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing == nil {
		m.stage = stageBoard
		return m, nil
	}
	switch key.Type {
	case tea.KeyEsc:
		m.closeEditor()
		return m, m.narrate(narrator.BackToBoard)
	case tea.KeyEnter:
		return m.applyEdit()
	}
	switch key.String() {
	case "ctrl+p":
		return m.promoteEdit()
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(key)
	return m, cmd
}

// requestVideo starts the generation flow for one scene. A scene with an
// outstanding job is refused; superseding applies to tickers, not jobs.
func (m *model) requestVideo(sceneID string, ref *gen.StillImage, narrated bool) (tea.Model, tea.Cmd) {
	if m.config.Client == nil {
		m.errorMessage = "Set GEMINI_API_KEY to enable generation."
		return m, nil
	}
	scene, ok := m.board.Get(sceneID)
	if !ok {
		m.errorMessage = "That scene is gone. Generate a fresh storyboard."
		return m, nil
	}
	if scene.Status == storyboard.StatusPending {
		m.infoMessage = "That scene is already rendering."
		return m, nil
	}
	m.board.MarkPending(sceneID, narrator.FirstLoadingMessage())
	m.errorMessage = ""
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.startSceneTicker(sceneID),
		m.jobs.Start(jobKindVideo,
			generateVideoJob(m.config.Client, sceneID, scene.Prompt, ref, m.config.PollInterval)),
	}
	if narrated {
		cmds = append(cmds, m.narrate(narrator.RenderingScene))
	}
	return m, tea.Batch(cmds...)
}

// startGenerateAll queues every scene without a video, in board order, and
// launches the first one. The rest start one at a time as results arrive.
func (m *model) startGenerateAll() (tea.Model, tea.Cmd) {
	if m.board.AnyPending() {
		m.infoMessage = "Generation already in progress."
		return m, nil
	}
	pending := m.board.WithoutVideo()
	if len(pending) == 0 {
		m.infoMessage = "Every scene already has a video."
		return m, nil
	}
	first := pending[0]
	m.generateQueue = pending[1:]
	narration := m.narrate(narrator.GenerateAllStart)
	teaModel, cmd := m.requestVideo(first, nil, false)
	return teaModel, tea.Batch(narration, cmd)
}

func (m *model) handleRefineResult(msg refineResultMsg) (tea.Model, tea.Cmd) {
	m.refining = false
	if msg.err != nil {
		m.errorMessage = "Failed to refine the story idea. Please try again."
		return m, m.narrate(narrator.RefineFailed)
	}
	m.candidates = append([]string{msg.idea}, msg.alternatives...)
	m.candidateCursor = 0
	m.stage = stageChoices
	m.errorMessage = ""
	return m, m.narrate(narrator.ChooseDirection)
}

func (m *model) handlePlanResult(msg planResultMsg) (tea.Model, tea.Cmd) {
	m.planning = false
	if msg.err != nil {
		m.errorMessage = "Failed to generate storyboard. Please try again."
		return m, m.narrate(narrator.BoardFailed)
	}
	scenes := make([]storyboard.Scene, 0, len(msg.plans))
	for i, plan := range msg.plans {
		scenes = append(scenes, storyboard.NewScene(i+1, plan.Prompt, plan.Description))
	}
	m.board.Replace(scenes)
	m.sceneCursor = 0
	m.generateQueue = nil
	m.candidates = nil
	m.candidateCursor = 0
	m.stage = stageBoard
	m.errorMessage = ""
	return m, m.narrate(narrator.BoardReady)
}

func (m *model) handleVideoResult(msg videoResultMsg) (tea.Model, tea.Cmd) {
	// The ticker dies on every exit path, success or failure.
	m.stopSceneTicker(msg.sceneID)

	var cmds []tea.Cmd
	if msg.err != nil {
		m.board.MarkFailed(msg.sceneID, "Video generation failed.")
		cmds = append(cmds, m.narrate(narrator.SceneFailed))
	} else {
		m.board.SetVideo(msg.sceneID, &storyboard.Video{Data: msg.data, MIMEType: "video/mp4"})
		cmds = append(cmds, m.narrate(narrator.SceneDone))
	}

	// Sequential generate-all: only now may the next queued scene start.
	for len(m.generateQueue) > 0 {
		next := m.generateQueue[0]
		m.generateQueue = m.generateQueue[1:]
		if scene, ok := m.board.Get(next); !ok || scene.Video != nil {
			continue
		}
		_, cmd := m.requestVideo(next, nil, false)
		cmds = append(cmds, cmd)
		break
	}
	return m, tea.Batch(cmds...)
}

func (m *model) openEditor(scene storyboard.Scene) (tea.Model, tea.Cmd) {
	if scene.Video == nil {
		m.infoMessage = "Generate a video for this scene before editing a frame."
		return m, nil
	}
	if scene.Status == storyboard.StatusPending {
		m.infoMessage = "That scene is still rendering."
		return m, nil
	}
	m.editing = &editSession{sceneID: scene.ID, capturing: true}
	m.editInput.SetValue("")
	m.editInput.Focus()
	m.stage = stageEdit
	return m, tea.Batch(
		m.spinner.Tick,
		textinput.Blink,
		m.narrate(narrator.EditingSuite),
		m.jobs.Start(jobKindFrame, captureFrameJob(m.config.CaptureFrame, scene.ID, scene.Video.Data)),
	)
}

func (m *model) closeEditor() {
	m.editing = nil
	m.editInput.Blur()
	m.editInput.SetValue("")
	m.stage = stageBoard
}

func (m *model) applyEdit() (tea.Model, tea.Cmd) {
	session := m.editing
	if session == nil || session.capturing || session.applying {
		return m, nil
	}
	instruction := strings.TrimSpace(m.editInput.Value())
	if instruction == "" {
		return m, nil
	}
	session.applying = true
	return m, tea.Batch(
		m.spinner.Tick,
		m.narrate(narrator.ApplyingEdit),
		m.jobs.Start(jobKindEdit, editStillJob(m.config.Client, session.sceneID, session.still, instruction)),
	)
}

// promoteEdit hands the edited still to the video flow as the new reference
// image and closes the session. A no-op while no edited result exists.
func (m *model) promoteEdit() (tea.Model, tea.Cmd) {
	session := m.editing
	if session == nil || session.edited == nil {
		return m, nil
	}
	sceneID := session.sceneID
	ref := *session.edited
	m.closeEditor()
	narration := m.narrate(narrator.PromotingEdit)
	teaModel, cmd := m.requestVideo(sceneID, &ref, false)
	return teaModel, tea.Batch(narration, cmd)
}

func (m *model) handleFrameResult(msg frameResultMsg) (tea.Model, tea.Cmd) {
	if m.editing == nil || m.editing.sceneID != msg.sceneID {
		return m, nil
	}
	m.editing.capturing = false
	if msg.err != nil {
		m.closeEditor()
		m.errorMessage = "Could not capture a frame from that video."
		return m, m.narrate(narrator.BackToBoard)
	}
	m.editing.still = gen.StillImage{Data: msg.still.Data, MIMEType: msg.still.MIMEType}
	return m, nil
}

func (m *model) handleEditResult(msg editResultMsg) (tea.Model, tea.Cmd) {
	if m.editing == nil || m.editing.sceneID != msg.sceneID {
		return m, nil
	}
	m.editing.applying = false
	if msg.err != nil {
		// A previous edited result, if any, stays usable.
		return m, m.narrate(narrator.EditFailed)
	}
	if msg.edited == nil {
		// The model replied with text only; nothing is fabricated.
		return m, m.narrate(narrator.EditNothingCame)
	}
	m.editing.edited = msg.edited
	return m, m.narrate(narrator.EditReady)
}
