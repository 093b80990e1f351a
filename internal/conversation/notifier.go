package conversation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// AssistantPrefix starts every line the assistant says on the console.
const AssistantPrefix = "Assistant:"

var (
	prefixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	listStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of fmt.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes "Assistant: ..." lines to stdout.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewCLINotifier creates a stdout-based notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Notify prints a normal assistant line.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s %s", prefixStyle.Render(AssistantPrefix), chatStyle.Render(message))
	return nil
}

// NotifyUrgent prints an assistant line in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s %s", prefixStyle.Render(AssistantPrefix), urgentStyle.Render(message))
	return nil
}

// Println prints a line that is shown but never spoken, such as an entry
// of the item listing.
func (n *CLINotifier) Println(text string) {
	n.printFn("%s", listStyle.Render(text))
}
