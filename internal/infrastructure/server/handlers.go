package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/windowscene/internal/domain/display"
	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	scenegrpc "github.com/GriffinCanCode/windowscene/internal/grpc"
	"github.com/GriffinCanCode/windowscene/internal/ipc"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
)

// handlers serves the debug routes
type handlers struct {
	host     *scenegrpc.Host
	displays *display.Manager
	system   window.SystemConfig
	logger   *zap.Logger
}

type rectRequest struct {
	Rect   types.Rect             `json:"rect"`
	Reason types.SizeChangeReason `json:"reason"`
}

type focusRequest struct {
	Focused bool `json:"focused"`
}

type keyRequest struct {
	KeyCode int32 `json:"key_code"`
	Action  int32 `json:"action"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": len(h.host.Sessions()),
		"ui_type":  h.system.UIType,
	})
}

func (h *handlers) listDisplays(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"displays":   h.displays.ListDisplays(),
		"default_id": h.displays.GetDefaultDisplayID(),
	})
}

func (h *handlers) listSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.host.Sessions()})
}

func (h *handlers) getSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	info, found := h.host.Session(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *handlers) pushRect(c *gin.Context) {
	var req rectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.notify(c, func(p *ipc.Proxy) error {
		return p.TransferUpdateRect(c.Request.Context(), req.Rect, req.Reason)
	})
}

func (h *handlers) pushFocus(c *gin.Context) {
	var req focusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.notify(c, func(p *ipc.Proxy) error {
		return p.TransferFocusStateEvent(c.Request.Context(), req.Focused)
	})
}

func (h *handlers) pushBack(c *gin.Context) {
	h.notify(c, func(p *ipc.Proxy) error {
		return p.TransferBackpressedEvent(c.Request.Context())
	})
}

func (h *handlers) pushKey(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var consumed bool
	h.notifyWith(c, func(p *ipc.Proxy) (err error) {
		consumed, err = p.TransferKeyEventForConsumed(c.Request.Context(), ipc.KeyEvent{KeyCode: req.KeyCode, Action: req.Action})
		return err
	}, func() gin.H { return gin.H{"consumed": consumed} })
}

func (h *handlers) notify(c *gin.Context, fn func(*ipc.Proxy) error) {
	h.notifyWith(c, fn, func() gin.H { return gin.H{} })
}

func (h *handlers) notifyWith(c *gin.Context, fn func(*ipc.Proxy) error, body func() gin.H) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.host.Notify(c.Request.Context(), id, fn); err != nil {
		if errors.Is(err, types.WSErrInvalidSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Warn("Event delivery failed", zap.Int64("persistent_id", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "code": types.Code(err)})
		return
	}

	out := body()
	out["success"] = true
	c.JSON(http.StatusOK, out)
}

func sessionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return 0, false
	}
	return id, true
}
