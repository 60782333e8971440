package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/subnamehq/subctl/internal/chain"
)

// SetupResult holds the answers collected by the first-run setup wizard.
type SetupResult struct {
	ParentName     string
	Network        string
	Testnet        bool
	RPCAlgorithm   string
	MintController string
	WalletAddress  string
	WalletName     string
}

// --- Bubble Tea model ---

type setupStep int

const (
	stepParent setupStep = iota
	stepNetwork
	stepAlgorithm
	stepController
	stepWallet
	stepDone
)

var algorithms = []string{"fastest", "round-robin", "failover"}

type setupModel struct {
	step      setupStep
	result    SetupResult
	cursor    int
	choices   []string
	input     string
	inputMode bool
}

func networkChoices() []string {
	nets := chain.Networks()
	out := make([]string, len(nets))
	for i, n := range nets {
		out[i] = n.Name
	}
	return out
}

func initialSetup() setupModel {
	return setupModel{
		step:      stepParent,
		inputMode: true,
	}
}

func (m setupModel) Init() tea.Cmd { return nil }

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if !m.inputMode {
				return m, tea.Quit
			}
			m.input += "q"

		case "up", "k":
			if !m.inputMode && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if !m.inputMode && m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "enter":
			if m.inputMode {
				m.applyInput()
			} else {
				m.applyChoice()
			}
			m.cursor = 0
			m.advance()

		case "backspace":
			if m.inputMode && len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}

		default:
			if m.inputMode && len(msg.String()) == 1 {
				m.input += msg.String()
			}
		}
	}

	if m.step == stepDone {
		return m, tea.Quit
	}
	return m, nil
}

func (m *setupModel) advance() {
	m.step++
	switch m.step {
	case stepNetwork:
		m.inputMode = false
		m.choices = networkChoices()
	case stepAlgorithm:
		m.choices = algorithms
	case stepController:
		m.choices = nil
		m.inputMode = true
		m.input = ""
	case stepWallet:
		m.inputMode = true
		m.input = ""
	}
}

func (m *setupModel) applyChoice() {
	if m.cursor >= len(m.choices) {
		return
	}
	switch m.step {
	case stepNetwork:
		m.result.Network = m.choices[m.cursor]
		if n, err := chain.NetworkByName(m.result.Network); err == nil {
			m.result.Testnet = n.Testnet
		}
	case stepAlgorithm:
		m.result.RPCAlgorithm = m.choices[m.cursor]
	}
}

func (m *setupModel) applyInput() {
	val := strings.TrimSpace(m.input)
	switch m.step {
	case stepParent:
		if val != "" {
			m.result.ParentName = strings.ToLower(val)
		}
	case stepController:
		m.result.MintController = strings.Trim(val, "[]")
	case stepWallet:
		addr := strings.Trim(val, "[]")
		if addr != "" {
			m.result.WalletAddress = addr
			m.result.WalletName = "default"
		}
	}
	m.inputMode = false
}

func (m setupModel) View() string {
	var s string

	switch m.step {
	case stepParent:
		s = inputPrompt("Parent name", "Which ENS name are subnames minted under? (e.g. noun.eth)", m.input)
	case stepNetwork:
		s = renderMenu("Select the listing network:", m.choices, m.cursor)
	case stepAlgorithm:
		s = renderMenu("Select RPC selection algorithm:", m.choices, m.cursor)
	case stepController:
		s = inputPrompt("Mint controller", "Enter the mint controller contract address:", m.input)
	case stepWallet:
		s = inputPrompt("Wallet (optional)", "Enter a wallet address to track (or press Enter to skip):", m.input)
	case stepDone:
		s = Success("Setup complete!") + "\n"
	}

	return StyleBorder.Render(s) + "\n"
}

func inputPrompt(title, help, input string) string {
	s := StyleTitle.Render(title) + "\n\n"
	s += StyleMeta.Render(help) + "\n"
	s += "> " + StyleAddress.Render(input) + "█\n"
	return s
}

func renderMenu(title string, items []string, cursor int) string {
	s := StyleTitle.Render(title) + "\n\n"
	for i, item := range items {
		icon := "  "
		style := lipgloss.NewStyle().Foreground(ColorValue)
		if i == cursor {
			icon = "▸ "
			style = StyleSelected
		}
		s += icon + style.Render(item) + "\n"
	}
	s += "\n" + StyleMeta.Render("↑/↓ navigate · Enter select · q quit")
	return s
}

// RunSetup launches the interactive setup wizard and returns the result.
func RunSetup() (*SetupResult, error) {
	m := initialSetup()
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("setup wizard: %w", err)
	}
	result := final.(setupModel).result
	return &result, nil
}
