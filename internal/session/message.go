package session

import "time"

// DefaultDismissDelay is how long a success message stays visible.
const DefaultDismissDelay = 5 * time.Second

// MessageKind distinguishes success notices from errors.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is a status line shown to the user.
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// IsError reports whether the message reports a failure.
func (m Message) IsError() bool {
	return m.Kind == MessageError
}

// showMessage displays msg and, for success messages, schedules its
// dismissal. Any pending dismissal of an older message is cancelled.
func (c *Controller) showMessage(msg Message) {
	c.msgMu.Lock()
	defer c.msgMu.Unlock()

	c.cancelDismissLocked()
	c.presenter.ShowMessage(msg)

	if msg.Kind != MessageSuccess || c.dismissDelay <= 0 {
		return
	}
	gen := c.generation
	c.timer = time.AfterFunc(c.dismissDelay, func() {
		c.expire(gen)
	})
}

func (c *Controller) success(text string) {
	c.showMessage(Message{Kind: MessageSuccess, Text: text})
}

func (c *Controller) failure(text string) {
	c.showMessage(Message{Kind: MessageError, Text: text})
}

// hideMessage hides the current message immediately.
func (c *Controller) hideMessage() {
	c.msgMu.Lock()
	defer c.msgMu.Unlock()

	c.cancelDismissLocked()
	c.presenter.HideMessage()
}

// expire hides the message shown at generation gen, unless it was replaced.
func (c *Controller) expire(gen uint64) {
	c.msgMu.Lock()
	defer c.msgMu.Unlock()

	if gen != c.generation {
		return
	}
	c.timer = nil
	c.presenter.HideMessage()
}

func (c *Controller) cancelDismissLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
