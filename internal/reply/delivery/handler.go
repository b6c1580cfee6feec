package delivery

import (
	"errors"
	"net/http"
	"strconv"

	replydomain "mailreply-backend/internal/reply/domain"
	replydto "mailreply-backend/internal/reply/dto"
	"mailreply-backend/internal/reply/usecase"
	"mailreply-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReplyHandler handles reply generation and saved-reply HTTP requests
type ReplyHandler struct {
	generator      usecase.ReplyGenerator
	historyUsecase usecase.HistoryUsecase
}

// NewReplyHandler creates a new ReplyHandler
func NewReplyHandler(generator usecase.ReplyGenerator, historyUsecase usecase.HistoryUsecase) *ReplyHandler {
	return &ReplyHandler{
		generator:      generator,
		historyUsecase: historyUsecase,
	}
}

var kindStatus = map[replydomain.ErrorKind]int{
	replydomain.ErrorKindValidation: http.StatusBadRequest,
	replydomain.ErrorKindConfig:     http.StatusInternalServerError,
	replydomain.ErrorKindQuota:      http.StatusTooManyRequests,
	replydomain.ErrorKindGeneration: http.StatusBadGateway,
}

// GenerateReply drafts a reply to the posted email in the requested tone
// POST /api/replies/generate
func (h *ReplyHandler) GenerateReply(c *gin.Context) {
	var req replydto.GenerateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, replydto.ErrorResponse{
			ErrorKind: replydomain.ErrorKindValidation,
			Error:     "invalid request body",
		})
		return
	}

	reply, err := h.generator.Generate(c.Request.Context(), req.OriginalEmail, replydomain.Tone(req.Tone))
	if err != nil {
		var genErr *replydomain.GenerationError
		if !errors.As(err, &genErr) {
			genErr = &replydomain.GenerationError{Kind: replydomain.ErrorKindGeneration, Message: "failed to generate a reply"}
		}
		status, ok := kindStatus[genErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, replydto.ErrorResponse{ErrorKind: genErr.Kind, Error: genErr.Message})
		return
	}

	c.JSON(http.StatusOK, replydto.GenerateReplyResponse{Reply: reply})
}

// SaveReply stores a generated reply
// POST /api/replies
func (h *ReplyHandler) SaveReply(c *gin.Context) {
	userID := c.GetString("userID")

	var req replydto.SaveReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.historyUsecase.SaveReply(userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

// GetReplies returns the user's saved replies, newest first
// GET /api/replies?limit=50
func (h *ReplyHandler) GetReplies(c *gin.Context) {
	userID := c.GetString("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	replies, err := h.historyUsecase.ListReplies(userID, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, replydto.RepliesResponse{Replies: replies, Count: len(replies)})
}

// GetReplyStats counts saved replies per tone
// GET /api/replies/stats
func (h *ReplyHandler) GetReplyStats(c *gin.Context) {
	stats, err := h.historyUsecase.Stats(c.GetString("userID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetReplyByID returns a saved reply
// GET /api/replies/:id
func (h *ReplyHandler) GetReplyByID(c *gin.Context) {
	reply, err := h.historyUsecase.GetReply(c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// UpdateReply edits a saved reply
// PATCH /api/replies/:id
func (h *ReplyHandler) UpdateReply(c *gin.Context) {
	userID := c.GetString("userID")
	replyID := c.Param("id")

	var req replydto.UpdateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.historyUsecase.UpdateReply(userID, replyID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// DeleteReply deletes a saved reply
// DELETE /api/replies/:id
func (h *ReplyHandler) DeleteReply(c *gin.Context) {
	if err := h.historyUsecase.DeleteReply(c.GetString("userID"), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reply deleted successfully"})
}

// GetTones lists the selectable tones with their display labels
// GET /api/tones
func (h *ReplyHandler) GetTones(c *gin.Context) {
	tones := make([]replydto.ToneOption, 0, len(replydomain.Tones))
	for _, tone := range replydomain.Tones {
		tones = append(tones, replydto.ToneOption{Value: tone, Label: tone.Label()})
	}
	c.JSON(http.StatusOK, gin.H{"tones": tones})
}

func (h *ReplyHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, replydomain.ErrReplyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reply not found"})
	case errors.Is(err, replydomain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, replydomain.ErrInvalidReply):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromContext(c, logger.Log).Error("reply history operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
