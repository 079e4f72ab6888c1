package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	userMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	botMsgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	systemMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	errorMsgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

const consoleHelp = `Команды: /shop /daily /featured /stats /top [n] /search <текст> /random /exchange /help
ctrl+c — выход`

type (
	errMsg      error
	responseMsg string
)

type model struct {
	viewport  viewport.Model
	messages  []string
	textarea  textarea.Model
	err       error
	mcpClient *MCPClient
}

func initialModel(mcpClient *MCPClient) model {
	ta := textarea.New()
	ta.Placeholder = "Введите команду, например /shop ..."
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 200

	ta.SetWidth(80)
	ta.SetHeight(1)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(80, 24)
	vp.SetContent("Магазин Fortnite — консольный клиент.\n" + consoleHelp + "\n\n")

	return model{
		textarea:  ta,
		messages:  []string{},
		viewport:  vp,
		mcpClient: mcpClient,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			m.appendMessage(userMsgStyle.Render("Вы: ") + input)
			m.textarea.Reset()

			if input == "/help" {
				m.appendMessage(systemMsgStyle.Render(consoleHelp))
				return m, nil
			}

			return m, m.runCommand(input)
		}

	case responseMsg:
		m.appendMessage(botMsgStyle.Render(string(msg)))

	case errMsg:
		m.err = msg
		m.appendMessage(errorMsgStyle.Render(fmt.Sprintf("Ошибка: %v", msg)))
		return m, nil
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *model) appendMessage(text string) {
	m.messages = append(m.messages, text)
	m.viewport.SetContent(strings.Join(m.messages, "\n\n") + "\n\n")
	m.viewport.GotoBottom()
}

// commandTools maps console commands to the server's tool names.
var commandTools = map[string]string{
	"/shop":     "shop_full",
	"/daily":    "shop_daily",
	"/featured": "shop_featured",
	"/stats":    "shop_stats",
	"/top":      "shop_top",
	"/search":   "shop_search",
	"/random":   "shop_random",
	"/exchange": "shop_exchange",
}

func (m model) runCommand(input string) tea.Cmd {
	return func() tea.Msg {
		parts := strings.SplitN(input, " ", 2)
		command := parts[0]
		args := ""
		if len(parts) == 2 {
			args = strings.TrimSpace(parts[1])
		}

		toolName, ok := commandTools[command]
		if !ok {
			return errMsg(fmt.Errorf("неизвестная команда %s, введите /help", command))
		}

		arguments := map[string]interface{}{}
		switch command {
		case "/search":
			if args == "" {
				return errMsg(fmt.Errorf("введите запрос, например: /search Jin"))
			}
			arguments["query"] = args
		case "/top":
			if args != "" {
				n, err := strconv.Atoi(args)
				if err != nil {
					return errMsg(fmt.Errorf("число предметов должно быть целым: %q", args))
				}
				arguments["limit"] = n
			}
		}

		result, err := m.mcpClient.CallTool(context.Background(), toolName, arguments)
		if err != nil {
			return errMsg(fmt.Errorf("сбой команды %s: %w", command, err))
		}
		return responseMsg(result)
	}
}

func (m model) View() string {
	return fmt.Sprintf(
		"%s\n\n%s",
		m.viewport.View(),
		m.textarea.View(),
	) + "\n\n(ctrl+c — выход)"
}

func main() {
	mcpClient, err := NewMCPClient()
	if err != nil {
		fmt.Printf("Error initializing MCP client: %v\n", err)
		os.Exit(1)
	}
	defer mcpClient.Close()

	p := tea.NewProgram(
		initialModel(mcpClient),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
