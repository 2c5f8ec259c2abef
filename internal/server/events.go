package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const subscriberBuffer = 64

// event is one notification on its way to the shell page.
type event struct {
	name string
	data interface{}
}

// hub fans events out to every connected SSE subscriber. Sends are
// non-blocking per subscriber: a page that stops reading drops events instead
// of stalling the dispatch loop behind it.
type hub struct {
	mu   sync.RWMutex
	subs map[string]chan event
}

func newHub() *hub {
	return &hub{subs: make(map[string]chan event)}
}

func (h *hub) subscribe() (string, <-chan event) {
	id := uuid.New().String()
	ch := make(chan event, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	return id, ch
}

func (h *hub) unsubscribe(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

func (h *hub) publish(ev event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *hub) subscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// handleAPIEvents streams bridge output and webview control events to the
// page as server-sent events, one event per forwarded line.
func (s *Server) handleAPIEvents(c *gin.Context) {
	id, ch := s.hub.subscribe()
	defer s.hub.unsubscribe(id)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("connected", gin.H{"subscriber": id})
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case ev := <-ch:
			c.SSEvent(ev.name, ev.data)
			c.Writer.Flush()
		}
	}
}

// handleAPIConsole returns the scrollback so a late-connecting page can
// render history before live events start arriving.
func (s *Server) handleAPIConsole(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			limit = n
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"lines": s.history.Snapshot(limit)})
}
