package tui

import "github.com/charmbracelet/lipgloss"

var (
	gradientStops = []string{"#0a84ff", "#bf5af2", "#ff375f"}
	particleStops = []string{"#3a6ea5", "#a34f7e", "#6c4f9e"}

	accentColor    = lipgloss.Color("#bf5af2")
	mutedColor     = lipgloss.Color("244")
	selectedBorder = lipgloss.Color("#fff4d0")

	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	helperStyle        = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	placeholderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0a84ff"))
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)

	inputBarStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentColor).Padding(0, 1)
	sendStyle     = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	sendOffStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	galleryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0a84ff"))
	resetStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	menuItemStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 2)
	menuActiveStyle   = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(selectedBorder).Bold(true).Padding(0, 2)
	menuDescStyle     = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	squareStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	squareActiveStyle = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(selectedBorder)
	squareLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Bold(true)
)

var logoArtLines = []string{
	"╻┏┳┓┏━┓ ╻╻",
	"┃┃┃┃┃ ┃ ┃┃",
	"╹╹ ╹┗━┛┗┛╹",
}

var (
	logoFaceStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#bf5af2")).Bold(true)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b2a4f"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
)
