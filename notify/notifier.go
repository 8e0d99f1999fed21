// Package notify pushes attendance events to a Telegram channel through
// shoutrrr. Delivery is best effort: failures are logged by the caller and
// never block or retry the attendance write.
package notify

import (
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

type Notifier struct {
	sender  *router.ServiceRouter
	enabled bool
}

// New builds a notifier from the stored bot credentials. Blank credentials
// yield a disabled notifier whose Send is a no-op.
func New(botToken, chatID string, timeout time.Duration) (*Notifier, error) {
	botToken = strings.TrimSpace(botToken)
	chatID = strings.TrimSpace(chatID)
	if botToken == "" || chatID == "" {
		return &Notifier{}, nil
	}

	serviceURL := fmt.Sprintf("telegram://%s@telegram?chats=%s", botToken, url.QueryEscape(chatID))
	sender, err := shoutrrr.CreateSender(serviceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram configuration: %w", err)
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))

	return &Notifier{sender: sender, enabled: true}, nil
}

func (n *Notifier) Enabled() bool { return n.enabled }

// Send delivers a plain text message with an optional title.
func (n *Notifier) Send(title, message string) error {
	if !n.enabled {
		return nil
	}
	params := stypes.Params{}
	if title != "" {
		params.SetTitle(title)
	}
	for _, err := range n.sender.Send(message, &params) {
		if err != nil {
			return err
		}
	}
	return nil
}

// AttendanceMarked formats the single-recognition message.
func AttendanceMarked(studentName, rollNo, subjectName, subjectCode, date, clock string) string {
	return fmt.Sprintf(
		"Attendance marked\nStudent: %s (%s)\nSubject: %s (%s)\nDate: %s\nTime: %s",
		studentName, rollNo, subjectName, subjectCode, date, clock,
	)
}

// SummaryLine is one row of the unsynced-attendance digest.
type SummaryLine struct {
	RollNo      string
	StudentName string
	SubjectCode string
	Date        string
	Time        string
	Status      string
}

// AttendanceSummary formats the digest pushed by the sync endpoint.
func AttendanceSummary(lines []SummaryLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attendance summary (%d records)\n", len(lines))
	for _, l := range lines {
		fmt.Fprintf(&b, "%s %s | %s %s %s [%s]\n",
			l.RollNo, l.StudentName, l.SubjectCode, l.Date, l.Time, l.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}
