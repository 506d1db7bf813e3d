package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/metrics"
)

const (
	EventContactRequest = "contact_request"
	EventJobCompleted   = "job_completed"

	clientBuffer      = 10
	heartbeatInterval = 30 * time.Second
)

// Broker distribui eventos SSE por usuário. Um usuário pode ter várias abas
// abertas; cada aba é um canal.
type Broker struct {
	userClients map[int64][]chan string
	mu          sync.Mutex

	newClient     chan clientRegistration
	closingClient chan clientRegistration
	message       chan targetedMessage
	stop          chan struct{}
	stopOnce      sync.Once
}

type clientRegistration struct {
	userID int64
	ch     chan string
}

type targetedMessage struct {
	userID int64
	event  string
	data   string
}

func NewBroker() *Broker {
	b := &Broker{
		userClients:   make(map[int64][]chan string),
		newClient:     make(chan clientRegistration),
		closingClient: make(chan clientRegistration),
		message:       make(chan targetedMessage),
		stop:          make(chan struct{}),
	}
	go b.listen()
	return b
}

func (b *Broker) listen() {
	for {
		select {
		case <-b.stop:
			b.mu.Lock()
			for _, channels := range b.userClients {
				for _, ch := range channels {
					close(ch)
				}
			}
			b.userClients = make(map[int64][]chan string)
			b.mu.Unlock()
			metrics.SSEClients.Set(0)
			return

		case reg := <-b.newClient:
			b.mu.Lock()
			b.userClients[reg.userID] = append(b.userClients[reg.userID], reg.ch)
			b.mu.Unlock()
			metrics.SSEClients.Inc()

		case reg := <-b.closingClient:
			b.mu.Lock()
			clients := b.userClients[reg.userID]
			for i, ch := range clients {
				if ch == reg.ch {
					b.userClients[reg.userID] = append(clients[:i], clients[i+1:]...)
					metrics.SSEClients.Dec()
					break
				}
			}
			if len(b.userClients[reg.userID]) == 0 {
				delete(b.userClients, reg.userID)
			}
			b.mu.Unlock()

		case tm := <-b.message:
			msg := formatEvent(tm.event, tm.data)
			b.mu.Lock()
			for _, ch := range b.userClients[tm.userID] {
				select {
				case ch <- msg:
				default:
					// aba lenta perde o evento
				}
			}
			b.mu.Unlock()
		}
	}
}

// Notify envia o evento para todas as abas de userID. Depois de Shutdown é
// um no-op.
func (b *Broker) Notify(userID int64, event, data string) {
	select {
	case b.message <- targetedMessage{userID: userID, event: event, data: data}:
	case <-b.stop:
	}
}

// Clients informa quantas abas de userID estão conectadas.
func (b *Broker) Clients(userID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.userClients[userID])
}

func (b *Broker) Shutdown() {
	b.stopOnce.Do(func() { close(b.stop) })
}

func (b *Broker) register(reg clientRegistration) bool {
	select {
	case b.newClient <- reg:
		return true
	case <-b.stop:
		return false
	}
}

func (b *Broker) unregister(reg clientRegistration) {
	select {
	case b.closingClient <- reg:
	case <-b.stop:
	}
}

// formatEvent quebra data em várias linhas "data:" quando necessário.
func formatEvent(event, data string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&sb, "data: %s\n", line)
	}
	sb.WriteString("\n")
	return sb.String()
}

// handleEvents mantém a conexão SSE do usuário logado até o cliente sair ou o
// broker parar.
func handleEvents(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r)
	if user.ID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	messageChan := make(chan string, clientBuffer)
	reg := clientRegistration{userID: user.ID, ch: messageChan}
	if !deps.Broker.register(reg) {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return nil
	}
	defer deps.Broker.unregister(reg)

	logging.AddToEvent(r.Context(), slog.String("sse", "connected"))
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		// writer sem suporte a streaming
		return fmt.Errorf("sse flush: %w", err)
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case msg, open := <-messageChan:
			if !open {
				return nil
			}
			if _, err := fmt.Fprint(w, msg); err != nil {
				return nil
			}
			_ = rc.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			_ = rc.Flush()
		case <-r.Context().Done():
			return nil
		}
	}
}
