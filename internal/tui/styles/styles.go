package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors chosen for readable contrast on dark terminals.
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	CognitoColor = lipgloss.Color("#60A5FA") // Blue
	MuseColor    = lipgloss.Color("#F472B6") // Pink

	// Sender labels
	User    = lipgloss.NewStyle().Bold(true).Foreground(SecondaryColor)
	Cognito = lipgloss.NewStyle().Bold(true).Foreground(CognitoColor)
	Muse    = lipgloss.NewStyle().Bold(true).Foreground(MuseColor)
	System  = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)

	// Convenience styles
	Muted   = lipgloss.NewStyle().Foreground(MutedColor)
	Warning = lipgloss.NewStyle().Foreground(WarningColor)
	Error   = lipgloss.NewStyle().Foreground(ErrorColor)

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Final synthesized answer block
	FinalAnswer = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1)

	// Reasoning trace shown under an agent message
	Thoughts = lipgloss.NewStyle().
			Foreground(MutedColor).
			Faint(true)

	// Notepad pane
	NotepadPane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	NotepadTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	// Persistent banner for API key problems
	KeyBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(ErrorColor).
			Padding(0, 1)

	// Bar above the input while a discussion step is running
	ActivityBar = lipgloss.NewStyle().
			Foreground(WarningColor)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)
)
