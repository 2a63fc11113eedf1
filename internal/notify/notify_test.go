package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name  string
	args  []string
	calls int
	err   error
}

func (r *recorder) run(name string, args ...string) error {
	r.name = name
	r.args = args
	r.calls++
	return r.err
}

func newRecorded(enabled bool) (*Notifier, *recorder) {
	rec := &recorder{}
	n := NewNotifier(enabled)
	n.run = rec.run
	return n, rec
}

func TestArgs(t *testing.T) {
	args := Args(Notification{
		Title:   "Title",
		Body:    "Body",
		Urgency: UrgencyCritical,
		Timeout: 1500 * time.Millisecond,
		Icon:    "icon",
	})
	assert.Equal(t, []string{"-u", "critical", "-t", "1500", "-i", "icon", "-a", "projboard", "Title", "Body"}, args)

	args = Args(Notification{Title: "Only title"})
	assert.Equal(t, []string{"-u", "normal", "-a", "projboard", "Only title"}, args)
}

func TestDisabledNotifierDoesNothing(t *testing.T) {
	n, rec := newRecorded(false)
	require.NoError(t, n.SendProjectStarted("A", "Personal"))
	assert.Zero(t, rec.calls)

	var nilNotifier *Notifier
	assert.False(t, nilNotifier.IsEnabled())
	require.NoError(t, nilNotifier.SendProjectCompleted("A", 0))
}

func TestSendProjectCompleted(t *testing.T) {
	n, rec := newRecorded(true)

	require.NoError(t, n.SendProjectCompleted("Thesis", 72*time.Hour))
	assert.Equal(t, "notify-send", rec.name)
	assert.Equal(t, "Thesis after 3 days", rec.args[len(rec.args)-1])
	assert.Equal(t, "Project completed!", rec.args[len(rec.args)-2])
}

func TestSendProjectStarted(t *testing.T) {
	n, rec := newRecorded(true)
	rec.err = errors.New("no notify-send")

	err := n.SendProjectStarted("Garden", "Personal")
	require.Error(t, err)
	assert.Equal(t, "Garden (Personal)", rec.args[len(rec.args)-1])
}

func TestFormatDays(t *testing.T) {
	assert.Equal(t, "less than a day", formatDays(3*time.Hour))
	assert.Equal(t, "1 day", formatDays(30*time.Hour))
	assert.Equal(t, "12 days", formatDays(12*24*time.Hour))
}
