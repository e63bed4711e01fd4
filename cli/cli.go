// cli/cli.go
// Package cli provides the interactive chat interface for the Medivise application.
package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/medivise/medivise/internal/appconfig"
	"github.com/medivise/medivise/internal/llm"
	"github.com/medivise/medivise/internal/qa"
	"github.com/medivise/medivise/internal/retrieval"
	"github.com/medivise/medivise/internal/util"
)

// Config represents the shared application configuration for the CLI.
type Config = appconfig.Config

// chatMessage represents a single message exchanged with the model.
type chatMessage = retrieval.Message

// viewState represents the current view or screen of the application.
type viewState int

const (
	// viewDocSelector is the state where the user selects documents to chat about.
	viewDocSelector viewState = iota
	// viewChat is the state where the user is interacting with the chat.
	viewChat
)

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx              context.Context
	config           *Config
	answerer         *qa.Answerer
	documents        []retrieval.Document
	selectedDocs     []retrieval.Document
	selectedLabel    string
	state            viewState
	isLoading        bool
	err              error
	docList          list.Model
	textArea         textarea.Model
	viewport         viewport.Model
	spinner          spinner.Model
	chatHistory      []chatMessage
	width, height    int
	requestStartTime time.Time
}

// initialModel creates and initializes a new model with default values.
func initialModel(ctx context.Context, cfg *Config, answerer *qa.Answerer, docs []retrieval.Document) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Ask about your documents..."
	ta.Focus()
	ta.Prompt = "You: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	docItems := make([]list.Item, 0, len(docs)+1)
	docItems = append(docItems, item{title: "All documents", desc: fmt.Sprintf("%d documents", len(docs))})
	for _, d := range docs {
		preview := util.TruncateRunes(strings.Join(strings.Fields(d.Text), " "), 60)
		docItems = append(docItems, item{title: d.Name, desc: preview})
	}
	docList := list.New(docItems, list.NewDefaultDelegate(), 0, 0)
	docList.Title = "Select Documents"

	vp := viewport.New(100, 5)

	return &model{
		ctx:       ctx,
		config:    cfg,
		answerer:  answerer,
		documents: docs,
		state:     viewDocSelector,
		spinner:   s,
		textArea:  ta,
		docList:   docList,
		viewport:  vp,
	}
}

// item represents a selectable item in a Bubble Tea list.
type item struct {
	title string
	desc  string
}

// Title returns the title of the list item.
func (i item) Title() string { return i.title }

// Description returns the description of the list item.
func (i item) Description() string { return i.desc }

// FilterValue returns the title of the item, used for filtering.
func (i item) FilterValue() string { return i.title }

// answerMsg is a message sent when the answerer has produced a reply.
type answerMsg struct {
	result qa.AnswerResult
}

// answerErr is a message sent when the answerer fails.
type answerErr struct{ error }

// tickMsg is a message sent at regular intervals, used for animations and timed updates.
type tickMsg time.Time

// askCmd creates a Bubble Tea command that runs one question through the
// answerer against the selected documents.
func askCmd(ctx context.Context, answerer *qa.Answerer, question string, docs []retrieval.Document, history []chatMessage) tea.Cmd {
	return func() tea.Msg {
		res, err := answerer.Answer(ctx, question, docs, history)
		if err != nil {
			return answerErr{error: err}
		}
		return answerMsg{result: res}
	}
}

// tickCmd creates a Bubble Tea command that sends a tickMsg at a regular interval.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the Bubble Tea model and returns a command to start the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.state == viewChat && !m.isLoading {
				m.state = viewDocSelector
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.docList.SetSize(msg.Width-2, msg.Height-4)
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 3
		footerHeight := 4
		m.viewport.Width = msg.Width
		m.viewport.Height = util.Max(msg.Height-headerHeight-footerHeight, 3)

	case answerMsg:
		m.isLoading = false
		content := msg.result.Answer
		if len(msg.result.Citations) > 0 {
			content += "\n(sources: " + strings.Join(msg.result.Citations, ", ") + ")"
		}
		m.chatHistory = append(m.chatHistory, chatMessage{Role: "assistant", Content: content})
		m.textArea.Focus()
		m.viewport.GotoBottom()
		return m, nil

	case answerErr:
		m.isLoading = false
		m.err = msg.error
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	switch m.state {
	case viewDocSelector:
		m.docList, cmd = m.docList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selected, ok := m.docList.SelectedItem().(item); ok {
				if m.docList.Index() == 0 {
					m.selectedDocs = m.documents
					m.selectedLabel = "all documents"
				} else {
					m.selectedDocs = m.documents[m.docList.Index()-1 : m.docList.Index()]
					m.selectedLabel = selected.Title()
				}
				m.state = viewChat
				m.err = nil
				m.textArea.Focus()
			}
		}

	case viewChat:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

		m.textArea, cmd = m.textArea.Update(msg)
		cmds = append(cmds, cmd)

		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" && !m.isLoading {
			question := strings.TrimSpace(m.textArea.Value())
			if question != "" {
				history := append([]chatMessage{}, m.chatHistory...)
				m.chatHistory = append(m.chatHistory, chatMessage{Role: "user", Content: question})
				m.textArea.Reset()
				m.isLoading = true
				m.err = nil
				m.requestStartTime = time.Now()

				cmds = append(cmds, m.spinner.Tick, askCmd(m.ctx, m.answerer, question, m.selectedDocs, history), tickCmd())
			}
		}
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n(tab to reselect, esc to quit)"
	}

	switch m.state {
	case viewDocSelector:
		listView := m.docList.View()
		if title := m.docList.Title; title != "" && !strings.Contains(listView, title) {
			listView = fmt.Sprintf("%s\n\n%s", title, listView)
		}
		return lipgloss.NewStyle().Margin(1, 2).Render(listView)

	case viewChat:
		return m.chatView()

	default:
		return "Unknown state"
	}
}

// chatView renders the chat interface, including the header, chat history,
// and the input text area.
func (m *model) chatView() string {
	var builder strings.Builder

	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)

	status := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Chat:"),
		headerStyle.Render(fmt.Sprintf("Model: %s", m.config.ModelName())),
		headerStyle.MarginLeft(1).Render(fmt.Sprintf("Docs: %s", m.selectedLabel)),
	)
	help := lipgloss.NewStyle().Render(" (tab to change docs, esc to quit)")
	builder.WriteString(status + help + "\n\n")

	var historyBuilder strings.Builder
	userStyle := lipgloss.NewStyle().Bold(true)
	assistantStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))

	for _, msg := range m.chatHistory {
		var role string
		if msg.Role == "assistant" {
			role = assistantStyle.Render("Assistant: ")
		} else {
			role = userStyle.Render("You: ")
		}
		wrappedContent := lipgloss.NewStyle().Width(m.width - lipgloss.Width(role) - 2).Render(msg.Content)
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, wrappedContent) + "\n")
	}

	m.viewport.SetContent(historyBuilder.String())
	builder.WriteString(m.viewport.View())

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		builder.WriteString("\n" + m.spinner.View() + fmt.Sprintf(" Assistant is thinking... %ss", timer))
	} else {
		builder.WriteString("\n" + m.textArea.View())
	}

	return builder.String()
}

// StartGUI initializes and runs the interactive chat TUI over the given
// documents.
func StartGUI(ctx context.Context, cfg *appconfig.Config, docs []retrieval.Document, cancel context.CancelFunc) {
	f, err := tea.LogToFile("medivise-tui.log", "debug")
	if err != nil {
		log.Fatalf("could not open log file: %v", err)
	}
	defer f.Close()
	defer func() {
		log.Println("Cancelling all running requests...")
		cancel()
	}()

	if cfg == nil {
		log.Fatalf("Failed to start: configuration is not loaded")
	}

	answerer := qa.New(llm.New(cfg), cfg.SnippetBudget())
	m := initialModel(ctx, cfg, answerer, docs)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
