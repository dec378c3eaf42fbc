package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"beltsense/internal/llm"
	"beltsense/internal/logger"
	"beltsense/internal/models"
)

// InitialGreeting opens every session and is what the transcript resets to
// after an inactivity timeout.
const InitialGreeting = "Hello! I am your Logistics and Warehouse AI assistant. Please provide reject reasons."

// sendFailedReply is appended as an assistant message when the model call
// fails, so the conversational flow is never interrupted by an error.
const sendFailedReply = "Sorry, I could not reach the assistant right now. Please try again in a moment."

const (
	defaultSessionTimeout = 5 * time.Minute
	defaultPollInterval   = 10 * time.Second
)

var errEmptyMessage = errors.New("message is empty")

// ChatService manages one conversational transcript and the inactivity
// watcher that resets it. The transcript is append-only between resets;
// a reset replaces it with the greeting alone.
type ChatService struct {
	model   Chatter
	log     *logger.Logger
	timeout time.Duration
	poll    time.Duration
	onReset func()

	mu           sync.Mutex
	messages     []models.ChatMessage
	lastActivity time.Time
	cancelWatch  context.CancelFunc
}

func NewChatService(model Chatter, timeout, poll time.Duration, onReset func(), log *logger.Logger) *ChatService {
	if timeout <= 0 {
		timeout = defaultSessionTimeout
	}
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &ChatService{
		model:    model,
		log:      log,
		timeout:  timeout,
		poll:     poll,
		onReset:  onReset,
		messages: []models.ChatMessage{greeting()},
	}
}

func greeting() models.ChatMessage {
	return models.ChatMessage{Role: models.RoleAssistant, Content: InitialGreeting}
}

// Open resets the transcript to the greeting and (re)starts the inactivity
// watcher. Reopening cancels the previous watcher so repeated open/close
// cycles never leak tickers.
func (s *ChatService) Open() {
	s.mu.Lock()
	if s.cancelWatch != nil {
		s.cancelWatch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelWatch = cancel
	s.messages = []models.ChatMessage{greeting()}
	s.lastActivity = time.Now()
	s.mu.Unlock()

	go s.watch(ctx)
}

// Close stops the inactivity watcher. The transcript stays as-is.
func (s *ChatService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelWatch != nil {
		s.cancelWatch()
		s.cancelWatch = nil
	}
}

// Send appends the user message, asks the model, and appends the reply.
// A model failure becomes an assistant-role failure message instead of an
// error. The reply is appended to whatever the transcript is when the call
// resolves: after an inactivity reset that is the fresh transcript, never
// the stale one.
func (s *ChatService) Send(ctx context.Context, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, errEmptyMessage
	}

	s.mu.Lock()
	s.messages = append(s.messages, models.ChatMessage{Role: models.RoleUser, Content: text})
	s.lastActivity = time.Now()
	prompt := s.promptLocked()
	s.mu.Unlock()

	reply, err := s.model.Chat(ctx, prompt)
	if err != nil {
		if s.log != nil {
			s.log.Infow("chat_send_failed", "err", err)
		}
		reply = sendFailedReply
	}

	msg := models.ChatMessage{Role: models.RoleAssistant, Content: reply}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.lastActivity = time.Now()
	s.mu.Unlock()

	return msg, nil
}

// Messages returns a copy of the current transcript.
func (s *ChatService) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// promptLocked maps the transcript onto the model request, prefixed by the
// system prompt carrying the reject-reason dataset. Callers hold the lock.
func (s *ChatService) promptLocked() []llm.Message {
	out := make([]llm.Message, 0, len(s.messages)+1)
	out = append(out, llm.Message{Role: models.RoleSystem, Content: chatSystemPrompt()})
	for _, m := range s.messages {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// watch polls for inactivity until the session is closed or reopened. The
// poll ticker is independent of the send path: a slow in-flight call does
// not trigger expiry because Send touches the timestamp before and after
// the model call.
func (s *ChatService) watch(ctx context.Context) {
	t := time.NewTicker(s.poll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.expireIfIdle(now)
		}
	}
}

// expireIfIdle resets the session when it has been idle longer than the
// timeout and signals the host to hide the chat surface.
func (s *ChatService) expireIfIdle(now time.Time) {
	s.mu.Lock()
	expired := now.Sub(s.lastActivity) > s.timeout
	if expired {
		s.messages = []models.ChatMessage{greeting()}
		s.lastActivity = now
	}
	s.mu.Unlock()

	if !expired {
		return
	}
	if s.log != nil {
		s.log.Infow("chat_session_reset", "idle_timeout", s.timeout)
	}
	if s.onReset != nil {
		s.onReset()
	}
}
