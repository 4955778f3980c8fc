package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/lost-in-space/internal/logger"
	"github.com/jwebster45206/lost-in-space/internal/storage"
	"github.com/jwebster45206/lost-in-space/pkg/command"
	"github.com/jwebster45206/lost-in-space/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

const (
	GameTitle       = "LOST IN SPACE"
	PlaceHolderText = "Type a command (HELP for a list)..."
	noticeDuration  = 2 * time.Second
)

// entry is one exchange in the transcript.
type entry struct {
	input   string
	message string
	outcome state.Outcome
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	store   storage.WorldStore
	opts    state.Options
	logger  *slog.Logger
	session *state.Session
	file    string // World file of the running session

	transcript         []entry
	transcriptViewport viewport.Model
	statusViewport     viewport.Model
	textarea           textarea.Model
	ready              bool
	width              int
	height             int
	err                error
	notice             string

	// World selection state
	showWorldModal bool
	worlds         []string
	worldMap       map[string]string
	selectedWorld  int
	loading        bool

	// Quit confirmation state
	showQuitModal bool
}

type sessionCreatedMsg struct {
	session *state.Session
	file    string
	err     error
}

type copiedMsg struct {
	err error
}

type noticeExpiredMsg struct{}

var (
	transcriptPanelStyle = lipgloss.NewStyle().
				PaddingTop(2).
				PaddingBottom(1).
				PaddingLeft(3).
				PaddingRight(0)

	statusPanelStyle = lipgloss.NewStyle().
				PaddingTop(2).
				PaddingBottom(0).
				PaddingLeft(0).
				PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	responseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(store storage.WorldStore, opts state.Options, log *slog.Logger, worlds []string, worldMap map[string]string, preferred string) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	transcriptVp := viewport.New(50, 20)
	transcriptVp.MouseWheelEnabled = true

	statusVp := viewport.New(20, 20)

	selected := 0
	for i, name := range worlds {
		if worldMap[name] == preferred {
			selected = i
			break
		}
	}

	return ConsoleUI{
		store:              store,
		opts:               opts,
		logger:             log,
		textarea:           ta,
		transcriptViewport: transcriptVp,
		statusViewport:     statusVp,
		showWorldModal:     true,
		worlds:             worlds,
		worldMap:           worldMap,
		selectedWorld:      selected,
	}
}

func writeIntro(title string, width int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(GameTitle) + "\n\n")
	if title != "" && title != GameTitle {
		content.WriteString(labelStyle.Render(title) + "\n\n")
	}
	content.WriteString(wordwrap.String("You wake up alone on a silent ship. Find your way before the air runs out. Type HELP to see what you can do.", max(width, 10)) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(width, 1))) + "\n\n")
	return content.String()
}

func writeStatus(st state.Status, maxOxygen int, width int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SHIP STATUS") + "\n\n")

	content.WriteString(labelStyle.Render("Location:") + "\n")
	content.WriteString(st.Location + "\n\n")

	content.WriteString(labelStyle.Render("Oxygen:") + "\n")
	content.WriteString(fmt.Sprintf("%d percent\n", st.Oxygen))
	content.WriteString(renderOxygenGauge(st.Oxygen, maxOxygen, width) + "\n\n")

	content.WriteString(labelStyle.Render("Inventory:") + "\n")
	if len(st.Inventory) == 0 {
		content.WriteString("Empty\n\n")
	} else {
		for _, it := range st.Inventory {
			content.WriteString(fmt.Sprintf("• %s\n", it))
		}
		content.WriteString("\n")
	}

	content.WriteString(labelStyle.Render("Turn:") + "\n")
	content.WriteString(fmt.Sprintf("%d\n\n", st.Turn))

	switch st.Phase {
	case state.PhaseGameOver:
		content.WriteString(errorStyle.Render("GAME OVER") + "\n")
		content.WriteString("Type NEW to try again\n\n")
	case state.PhaseWon:
		content.WriteString(responseStyle.Render("YOU WIN") + "\n\n")
	}

	content.WriteString("Keys:\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• Ctrl+Y: Copy reply\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• /worlds: Switch world\n")
	content.WriteString("• /clear: Clear log\n")

	return content.String()
}

// renderOxygenGauge draws the tank level as a bar.
func renderOxygenGauge(level, capacity, width int) string {
	if width > 30 {
		width = 30
	} else if width < 10 {
		width = 10
	}
	if capacity <= 0 {
		capacity = 1
	}
	filled := (max(level, 0) * width) / capacity

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}

	switch {
	case level*4 <= capacity:
		return errorStyle.Render(bar.String())
	case level*2 <= capacity:
		return warnStyle.Render(bar.String())
	}
	return responseStyle.Render(bar.String())
}

// formatResponse wraps a reply and colors it by outcome.
func formatResponse(e entry, width int) string {
	var out strings.Builder
	if e.input != "" {
		out.WriteString(userStyle.Render("> ") + wordwrap.String(e.input, max(width-2, 10)) + "\n\n")
	}

	wrapped := wordwrap.String(e.message, max(width, 10))
	switch e.outcome {
	case state.OutcomeOK:
		out.WriteString(responseStyle.Render(wrapped))
	case state.OutcomeBlocked, state.OutcomeNotFound:
		out.WriteString(warnStyle.Render(wrapped))
	default:
		out.WriteString(errorStyle.Render(wrapped))
	}
	return out.String()
}

// writeTranscript rebuilds the transcript for the current viewport width
func (m *ConsoleUI) writeTranscript() {
	width := m.transcriptViewport.Width - 6 // Account for left(3) + right(3) padding

	title := ""
	if m.session != nil {
		title = m.session.World.Title
	}

	var content strings.Builder
	content.WriteString(writeIntro(title, width))
	for _, e := range m.transcript {
		content.WriteString(formatResponse(e, width) + "\n\n")
	}
	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}

	m.transcriptViewport.SetContent(content.String())
	m.transcriptViewport.GotoBottom()
}

func (m *ConsoleUI) writeStatusPanel() {
	if m.session == nil {
		return
	}
	m.statusViewport.SetContent(writeStatus(m.session.Status(), m.session.Player.MaxOxygen(), m.statusViewport.Width))
}

func (m *ConsoleUI) layout() {
	transcriptWidth := int(float64(m.width)*0.72) - 4
	statusWidth := m.width - transcriptWidth - 6

	m.transcriptViewport.Width = transcriptWidth - 2
	m.transcriptViewport.Height = m.height - 5
	m.statusViewport.Width = statusWidth - 2
	m.statusViewport.Height = m.height - 4
	m.textarea.SetWidth(transcriptWidth - 4)
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Quit modal sits on top of everything
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	if m.showWorldModal {
		return m.updateWorldModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		svCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.transcriptViewport, vpCmd = m.transcriptViewport.Update(msg)
		m.statusViewport, svCmd = m.statusViewport.Update(msg)
		return m, tea.Batch(vpCmd, svCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeTranscript()
		m.writeStatusPanel()

	case copiedMsg:
		m.notice = "Copied last reply to clipboard"
		if msg.err != nil {
			logger.WithError(m.logger, msg.err).Warn("Failed to copy to clipboard")
			m.notice = "Clipboard unavailable"
		}
		return m, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
			return noticeExpiredMsg{}
		})

	case noticeExpiredMsg:
		m.notice = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyCtrlY:
			return m, m.copyLastReply()

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.handleConsoleCommand(input)
			}
			return m.play(input)
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.transcriptViewport, vpCmd = m.transcriptViewport.Update(msg)
	m.statusViewport, svCmd = m.statusViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, svCmd)
}

// play sends one line of input to the game.
func (m ConsoleUI) play(input string) (tea.Model, tea.Cmd) {
	res := m.session.Handle(context.Background(), command.Parse(input))
	m.transcript = append(m.transcript, entry{input: input, message: res.Message, outcome: res.Outcome})
	m.err = nil
	m.writeTranscript()
	m.writeStatusPanel()

	if res.Phase == state.PhaseQuit {
		logger.WithSessionID(m.logger, m.session.ID.String()).Info("Player quit", "turn", m.session.Turn)
		return m, tea.Quit
	}
	return m, nil
}

func (m ConsoleUI) copyLastReply() tea.Cmd {
	if len(m.transcript) == 0 {
		return nil
	}
	last := m.transcript[len(m.transcript)-1].message
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(last)}
	}
}

func (m ConsoleUI) handleConsoleCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/clear":
		m.transcript = nil
		m.writeTranscript()

	case "/worlds":
		m.showWorldModal = true
		return m, nil

	case "/reload":
		if m.file == "" {
			return m, nil
		}
		if inv, ok := m.store.(storage.Invalidator); ok {
			if err := inv.Invalidate(context.Background(), m.file); err != nil {
				logger.WithError(m.logger, err).Warn("Failed to invalidate world cache", "file", m.file)
			}
		}
		m.showWorldModal = true
		m.loading = true
		m.err = nil
		return m, m.createSession(m.file)

	case "/help":
		m.transcript = append(m.transcript, entry{
			message: "Console commands:\n• /worlds - Pick a different world\n• /reload - Reread the world file and start over\n• /clear - Clear the log\n• /help - Show this help\n\nType HELP for game commands.",
			outcome: state.OutcomeOK,
		})
		m.writeTranscript()

	default:
		m.transcript = append(m.transcript, entry{
			input:   input,
			message: "Unknown console command. Try /help.",
			outcome: state.OutcomeInvalidCommand,
		})
		m.writeTranscript()
	}
	return m, nil
}

func (m ConsoleUI) createSession(file string) tea.Cmd {
	return func() tea.Msg {
		loader := storage.Loader{Store: m.store, File: file}
		s, err := state.NewSession(context.Background(), loader, m.opts, m.logger)
		return sessionCreatedMsg{session: s, file: file, err: err}
	}
}

func (m ConsoleUI) updateWorldModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			logger.WithError(m.logger, msg.err).Error("Failed to start session", "file", msg.file)
			return m, nil
		}

		m.session = msg.session
		m.file = msg.file
		m.err = nil
		m.showWorldModal = false
		m.transcript = []entry{{message: m.session.Status().String(), outcome: state.OutcomeOK}}
		if m.width > 0 && m.height > 0 {
			m.layout()
		}
		m.writeTranscript()
		m.writeStatusPanel()
		m.textarea.Focus()
		m.ready = true
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.loading {
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEsc:
			// Back to the running game, if there is one
			if m.session != nil {
				m.showWorldModal = false
				m.err = nil
				return m, textarea.Blink
			}
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedWorld > 0 {
				m.selectedWorld--
			}
		case tea.KeyDown:
			if m.selectedWorld < len(m.worlds)-1 {
				m.selectedWorld++
			}
		case tea.KeyEnter:
			if len(m.worlds) > 0 {
				file := m.worldMap[m.worlds[m.selectedWorld]]
				m.loading = true
				m.err = nil
				return m, m.createSession(file)
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showWorldModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Abandon Ship?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderWorldModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Loading World..."))
		content.WriteString("\n\n")
		content.WriteString(warnStyle.Render("Powering up the ship..."))
	default:
		content.WriteString(modalTitleStyle.Render("Select a World"))
		content.WriteString("\n\n")

		for i, name := range m.worlds {
			if i == m.selectedWorld {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", name)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", name)))
			}
			content.WriteString("\n")
		}

		if m.err != nil {
			content.WriteString("\n")
			content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load world: %v", m.err)))
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showWorldModal {
		return m.renderWorldModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	transcriptWidth := int(float64(m.width)*0.72) - 4
	statusWidth := m.width - transcriptWidth - 6

	footer := separatorStyle.Render(strings.Repeat("─", max(transcriptWidth-4, 1)))
	if m.notice != "" {
		footer = promptStyle.Render(m.notice)
	}

	transcriptPanel := transcriptPanelStyle.Width(transcriptWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.transcriptViewport.View(),
			"",
			footer,
			m.textarea.View(),
		),
	)

	statusPanel := statusPanelStyle.Width(statusWidth).Height(m.height - 2).Render(
		m.statusViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, transcriptPanel, statusPanel)
}
