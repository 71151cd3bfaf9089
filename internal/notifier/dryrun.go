package notifier

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Notify prints the announcement that would be posted
func (n *DryRunNotifier) Notify(summary Summary) error {
	text := formatAnnouncement(summary, MaxLength)
	_, err := fmt.Fprintf(n.out, "--- Announcement ---\n%s\n\n(Length: %d characters)\n", text, utf8.RuneCountInString(text))
	return err
}
