package voice

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prepwise/airecruiter/internal/models"
)

// State of a voice interview session as seen by the controller.
type State string

const (
	StateReady      State = "ready"
	StateConnecting State = "connecting"
	StateActive     State = "active"
	StateEnding     State = "ending"
	StateSaved      State = "saved"
	StateSaveFailed State = "save_failed"
)

// Redirect delays surfaced to the client after the terminal states. A failed
// save still moves the user forward, just a bit slower so the message is seen.
const (
	savedRedirectMS      = 2000
	saveFailedRedirectMS = 3000
)

// Event mirrors the voice-agent SDK callbacks: lifecycle signals, volume, and
// transcript messages (final or partial).
type Event struct {
	Type           string  `json:"type"` // start|call-start|call-end|speech-start|speech-end|volume-level|message|end|error
	Level          float64 `json:"level,omitempty"`
	Role           string  `json:"role,omitempty"`
	TranscriptType string  `json:"transcriptType,omitempty"` // final|partial
	Text           string  `json:"text,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// StatusUpdate is pushed to the client on every observable change.
type StatusUpdate struct {
	State           State   `json:"state"`
	Status          string  `json:"status"`
	Volume          float64 `json:"volume,omitempty"`
	PartialText     string  `json:"partial_text,omitempty"`
	RedirectAfterMS int64   `json:"redirect_after_ms,omitempty"`
}

// TranscriptSaver persists the finished transcript; satisfied by the
// interview service.
type TranscriptSaver interface {
	SaveTranscript(ctx context.Context, sessionID string, transcript []models.TranscriptEntry, durationSeconds int64) error
}

// Controller runs the session state machine. Events are processed strictly in
// arrival order by a single consumer, so handlers mutate state without locks;
// the mutex only guards the read-side accessors.
type Controller struct {
	sessionID string
	saver     TranscriptSaver
	log       *logrus.Logger
	now       func() time.Time

	events  chan Event
	updates chan StatusUpdate

	mu         sync.Mutex
	state      State
	transcript []models.TranscriptEntry
	partial    string
	callStart  time.Time
	saveDone   bool
}

const eventQueueSize = 64

func NewController(sessionID string, saver TranscriptSaver, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.New()
	}
	return &Controller{
		sessionID: sessionID,
		saver:     saver,
		log:       log,
		now:       time.Now,
		events:    make(chan Event, eventQueueSize),
		updates:   make(chan StatusUpdate, 16),
		state:     StateReady,
	}
}

// Submit enqueues an event for in-order processing. It blocks when the queue
// is full so ordering is never traded for drops.
func (c *Controller) Submit(ctx context.Context, ev Event) error {
	select {
	case c.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Updates is the stream of status changes for the client connection.
func (c *Controller) Updates() <-chan StatusUpdate { return c.updates }

// Run consumes events until the session reaches a terminal state or the
// context ends. A context cancellation mid-session counts as a manual end so
// the one save attempt still happens.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.updates)
	for {
		select {
		case <-ctx.Done():
			if s := c.State(); s == StateConnecting || s == StateActive {
				c.Process(Event{Type: "end"})
			}
			return
		case ev := <-c.events:
			c.Process(ev)
			if s := c.State(); s == StateSaved || s == StateSaveFailed {
				return
			}
		}
	}
}

// Process applies one event. Exported for the consumer loop and for driving
// the machine synchronously in tests.
func (c *Controller) Process(ev Event) {
	switch ev.Type {
	case "start":
		if c.State() == StateReady {
			c.setState(StateConnecting, "Connecting...")
		}

	case "call-start":
		if c.State() == StateConnecting {
			c.mu.Lock()
			c.transcript = nil
			c.partial = ""
			c.callStart = c.now()
			c.mu.Unlock()
			c.setState(StateActive, "Call started")
		}

	case "error":
		// connect failure is not fatal to the page: back to Ready
		if c.State() == StateConnecting {
			c.setState(StateReady, "Failed to start")
		}

	case "speech-start":
		if c.State() == StateActive {
			c.emit(StatusUpdate{State: StateActive, Status: "AI is speaking..."})
		}

	case "speech-end":
		if c.State() == StateActive {
			c.emit(StatusUpdate{State: StateActive, Status: "Listening..."})
		}

	case "volume-level":
		if c.State() == StateActive {
			c.emit(StatusUpdate{State: StateActive, Status: "Listening...", Volume: ev.Level})
		}

	case "message":
		c.handleTranscript(ev)

	case "call-end", "end":
		c.finish()
	}
}

func (c *Controller) handleTranscript(ev Event) {
	if c.State() != StateActive {
		return
	}

	role := models.RoleUser
	if ev.Role == models.RoleAssistant {
		role = models.RoleAssistant
	}

	switch ev.TranscriptType {
	case "final":
		entry := models.TranscriptEntry{
			Role:      role,
			Text:      ev.Text,
			Timestamp: c.now().UnixMilli(),
		}
		c.mu.Lock()
		c.transcript = append(c.transcript, entry)
		c.partial = ""
		c.mu.Unlock()
		c.emit(StatusUpdate{State: StateActive, Status: "Listening..."})

	case "partial":
		// ephemeral display state only: replaced on each update, never saved
		if role == models.RoleUser {
			c.mu.Lock()
			c.partial = ev.Text
			c.mu.Unlock()
			c.emit(StatusUpdate{State: StateActive, Status: "Listening...", PartialText: ev.Text})
		}
	}
}

// finish runs the Ending transition: compute duration, attempt the single
// best-effort save, and land on Saved or SaveFailed. Ending before the call
// ever went active saves an empty transcript with zero duration.
func (c *Controller) finish() {
	s := c.State()
	if s != StateConnecting && s != StateActive {
		return
	}

	c.mu.Lock()
	if c.saveDone {
		c.mu.Unlock()
		return
	}
	c.saveDone = true

	var duration int64
	if !c.callStart.IsZero() {
		duration = int64(c.now().Sub(c.callStart).Seconds())
		if duration < 0 {
			duration = 0
		}
	}
	transcript := make([]models.TranscriptEntry, len(c.transcript))
	copy(transcript, c.transcript)
	c.partial = ""
	c.mu.Unlock()

	c.setState(StateEnding, "Call ended - Saving transcript...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.saver.SaveTranscript(ctx, c.sessionID, transcript, duration); err != nil {
		// deliberate best-effort: log and move the user forward anyway
		c.log.WithFields(logrus.Fields{
			"session_id": c.sessionID,
			"error":      err.Error(),
		}).Error("transcript save failed")
		c.setStateWithRedirect(StateSaveFailed, "Error saving transcript - redirecting anyway...", saveFailedRedirectMS)
		return
	}

	c.log.WithFields(logrus.Fields{
		"session_id": c.sessionID,
		"entries":    len(transcript),
		"duration_s": duration,
	}).Info("transcript saved")
	c.setStateWithRedirect(StateSaved, "Redirecting to feedback...", savedRedirectMS)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Transcript() []models.TranscriptEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.TranscriptEntry, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) Partial() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.partial
}

func (c *Controller) setState(s State, status string) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.emit(StatusUpdate{State: s, Status: status})
}

func (c *Controller) setStateWithRedirect(s State, status string, redirectMS int64) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.emit(StatusUpdate{State: s, Status: status, RedirectAfterMS: redirectMS})
}

// emit never blocks the consumer; a slow client just misses intermediate
// volume ticks, not state changes of interest (they are re-read on demand).
func (c *Controller) emit(u StatusUpdate) {
	select {
	case c.updates <- u:
	default:
	}
}
