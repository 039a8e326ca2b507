package assistant

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/pacing"
)

// Upload pacing defaults.
const (
	UploadTick     = 300 * time.Millisecond
	UploadDuration = 2500 * time.Millisecond
	UploadSettle   = 600 * time.Millisecond
)

// uploadCeiling caps simulated progress until the transfer completes.
const uploadCeiling = 90

// Chat owns a transcript on top of a Session. Changing the context starts a
// new transcript; replies that belong to an older context are dropped.
type Chat struct {
	// Upload pacing, exported so callers can shorten it.
	UploadTick     time.Duration
	UploadDuration time.Duration
	UploadSettle   time.Duration

	session *Session
	logger  *zap.Logger

	mu           sync.Mutex
	gen          uint64
	messages     []models.ChatMessage
	files        []string
	rng          *rand.Rand
	cancelUpload context.CancelFunc
}

// NewChat creates a chat scoped to c and posts its greeting.
func NewChat(session *Session, c Context, logger *zap.Logger) *Chat {
	if logger == nil {
		logger = zap.NewNop()
	}
	ch := &Chat{
		UploadTick:     UploadTick,
		UploadDuration: UploadDuration,
		UploadSettle:   UploadSettle,
		session:        session,
		logger:         logger,
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	ch.SetContext(c)
	return ch
}

// SetContext discards the transcript and attachments, cancels a running
// upload and restarts the session scoped to c.
func (ch *Chat) SetContext(c Context) {
	ch.mu.Lock()
	ch.gen++
	if ch.cancelUpload != nil {
		ch.cancelUpload()
		ch.cancelUpload = nil
	}
	ch.files = nil
	ch.messages = []models.ChatMessage{modelMessage(c.Greeting())}
	ch.mu.Unlock()

	ch.session.Reset(c)
}

// Context returns the session scope.
func (ch *Chat) Context() Context {
	return ch.session.Context()
}

// Messages returns a copy of the transcript.
func (ch *Chat) Messages() []models.ChatMessage {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return slices.Clone(ch.messages)
}

// Attachments returns the names of the files attached so far.
func (ch *Chat) Attachments() []string {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return slices.Clone(ch.files)
}

// Submit posts text and runs one turn. Empty text without attachments is
// ignored. It returns the assistant messages appended by the turn, which
// is nil when the context changed while the turn was in flight.
func (ch *Chat) Submit(ctx context.Context, text string, h Handlers) []models.ChatMessage {
	ch.mu.Lock()
	if strings.TrimSpace(text) == "" && len(ch.files) == 0 {
		ch.mu.Unlock()
		return nil
	}
	gen := ch.gen
	files := slices.Clone(ch.files)
	ch.messages = append(ch.messages, models.ChatMessage{ID: uuid.NewString(), Role: models.RoleUser, Text: text})
	ch.mu.Unlock()

	turn := ch.session.Send(ctx, text, files, h)

	ch.mu.Lock()
	defer ch.mu.Unlock()
	if gen != ch.gen {
		ch.logger.Debug("dropping reply from a previous context")
		return nil
	}
	var added []models.ChatMessage
	for _, n := range turn.Notices {
		added = append(added, modelMessage(n))
	}
	added = append(added, modelMessage(turn.Text))
	ch.messages = append(ch.messages, added...)
	return added
}

// Upload simulates a file upload: progress is reported while the transfer
// runs, then the file is attached and an acknowledgement is posted. A
// context change or a newer upload cancels it.
func (ch *Chat) Upload(ctx context.Context, name string, progress func(percent int)) error {
	if progress == nil {
		progress = func(int) {}
	}

	ch.mu.Lock()
	if ch.cancelUpload != nil {
		ch.cancelUpload()
	}
	ctx, cancel := context.WithCancel(ctx)
	ch.cancelUpload = cancel
	gen := ch.gen
	ch.messages = append(ch.messages, models.ChatMessage{
		ID:          uuid.NewString(),
		Role:        models.RoleUser,
		Text:        "File uploaded: " + name,
		Attachments: []string{name},
	})
	ch.mu.Unlock()
	defer cancel()

	percent := 0
	var seq pacing.Sequence
	elapsed := time.Duration(0)
	for ch.UploadTick > 0 && elapsed+ch.UploadTick < ch.UploadDuration {
		elapsed += ch.UploadTick
		seq = append(seq, pacing.Step{After: ch.UploadTick, Do: func() {
			ch.mu.Lock()
			percent = min(percent+ch.rng.IntN(15), uploadCeiling)
			ch.mu.Unlock()
			progress(percent)
		}})
	}
	seq = append(seq,
		pacing.Step{After: ch.UploadDuration - elapsed, Do: func() { progress(100) }},
		pacing.Step{After: ch.UploadSettle, Do: func() { ch.attach(gen, name) }},
	)

	if err := seq.Run(ctx); err != nil {
		ch.logger.Debug("upload cancelled", zap.String("file", name), zap.Error(err))
		return err
	}
	return nil
}

func (ch *Chat) attach(gen uint64, name string) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if gen != ch.gen {
		return
	}
	ch.files = append(ch.files, name)
	ch.messages = append(ch.messages, modelMessage(fmt.Sprintf(
		"RAG processing complete for %q.\n\n✓ Data vectorized and indexed.\n✓ Key entities extracted.\n✓ Context updated.\n\nI'm ready to answer questions about this document.",
		name)))
	ch.logger.Info("file attached", zap.String("file", name))
}

func modelMessage(text string) models.ChatMessage {
	return models.ChatMessage{ID: uuid.NewString(), Role: models.RoleModel, Text: text}
}
