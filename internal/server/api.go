package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sevir/gangway/internal/bridge"
)

func (s *Server) handleBridgeWrite(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.supervisor.Write(req.Text); err != nil {
		if errors.Is(err, bridge.ErrNoProcess) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		// I/O failure at the pipe: the bridge likely exited on its own. The
		// write is not retried; the page may ask for a restart.
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleBridgeStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.supervisor.Status())
}

func (s *Server) handleBridgeRestart(c *gin.Context) {
	if err := s.supervisor.Restart(); err != nil {
		var spawnErr *bridge.SpawnError
		if errors.As(err, &spawnErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": spawnErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.supervisor.Status())
}

// handleWebviewControl forwards a navigation command to the page. The server
// only relays; the page owns its own history and reload behaviour.
func (s *Server) handleWebviewControl(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.hub.publish(event{name: name})
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleDevtoolsSet(open bool) gin.HandlerFunc {
	name := "devtools-close"
	if open {
		name = "devtools-open"
	}
	return func(c *gin.Context) {
		s.devtoolsMu.Lock()
		s.devtoolsOpen = open
		s.devtoolsMu.Unlock()

		s.hub.publish(event{name: name})
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleDevtoolsState(c *gin.Context) {
	s.devtoolsMu.Lock()
	open := s.devtoolsOpen
	s.devtoolsMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"open": open})
}

func parsePositiveInt(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative value")
	}
	return n, nil
}
