package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eternal-365/educonnect/internal/chat"
	"github.com/eternal-365/educonnect/internal/common"
	"github.com/eternal-365/educonnect/internal/httpapi/middleware"
)

type chatReq struct {
	Text      string `json:"text"`
	MessageID string `json:"messageId"`
	StudentID string `json:"studentId"`
}

func (h *Handler) Chat(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	msg, err := h.ChatSvc.SendMessage(c.Request.Context(), claims, req.Text, req.MessageID, req.StudentID)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			common.Fail(c, http.StatusBadRequest, "message text is required")
		case errors.Is(err, chat.ErrStudentRequired):
			common.Fail(c, http.StatusBadRequest, "student id is required for parent accounts")
		case errors.Is(err, chat.ErrRateLimited):
			common.Fail(c, http.StatusTooManyRequests, "too many requests, please wait a moment")
		case errors.Is(err, chat.ErrStudentNotFound):
			common.Fail(c, http.StatusNotFound, "student not found")
		default:
			// The user turn is already persisted; answer with a canned
			// fallback so the widget has something to show.
			log.Printf("[Chat] user=%d err=%v", claims.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "chat service failed",
				"reply":   chat.FallbackReply(),
			})
		}
		return
	}

	common.OK(c, gin.H{
		"reply":     msg.Content,
		"messageId": msg.MessageID,
		"timestamp": msg.CreatedAt,
	})
}

func (h *Handler) ChatHistory(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	history, err := h.ChatSvc.History(c.Request.Context(), claims, c.Param("studentId"), limit)
	if err != nil {
		if errors.Is(err, chat.ErrStudentRequired) {
			common.Fail(c, http.StatusBadRequest, "student id is required for parent accounts")
			return
		}
		if errors.Is(err, chat.ErrStudentNotFound) {
			common.Fail(c, http.StatusNotFound, "student not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "failed to fetch chat history")
		return
	}

	common.OK(c, gin.H{"history": history})
}

// ChatAsync queues the reply generation instead of waiting on the upstream
// call; the widget polls the job endpoint.
func (h *Handler) ChatAsync(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.Rabbit == nil {
		common.Fail(c, http.StatusServiceUnavailable, "async chat is not enabled")
		return
	}

	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	job, err := h.ChatSvc.EnqueueMessage(c.Request.Context(), claims, req.Text, req.MessageID, req.StudentID)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			common.Fail(c, http.StatusBadRequest, "message text is required")
		case errors.Is(err, chat.ErrStudentRequired):
			common.Fail(c, http.StatusBadRequest, "student id is required for parent accounts")
		case errors.Is(err, chat.ErrRateLimited):
			common.Fail(c, http.StatusTooManyRequests, "too many requests, please wait a moment")
		case errors.Is(err, chat.ErrStudentNotFound):
			common.Fail(c, http.StatusNotFound, "student not found")
		default:
			log.Printf("[ChatAsync] user=%d err=%v", claims.UserID, err)
			common.Fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if err := h.Rabbit.PublishJob(c.Request.Context(), job.ID, job.OwnerID); err != nil {
		log.Printf("[ChatAsync] publish failed user=%d job=%s err=%v", claims.UserID, job.ID, err)
		common.Fail(c, http.StatusInternalServerError, "enqueue failed")
		return
	}

	common.OK(c, gin.H{"jobId": job.ID})
}

func (h *Handler) GetChatJob(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID := c.Param("jobId")
	if jobID == "" {
		common.Fail(c, http.StatusBadRequest, "job id required")
		return
	}

	job, err := h.ChatSvc.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, chat.ErrJobNotFound) {
			common.Fail(c, http.StatusNotFound, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if job.CallerID != claims.UserID && job.OwnerID != claims.UserID {
		// hide existence
		common.Fail(c, http.StatusNotFound, "job not found")
		return
	}

	common.OK(c, gin.H{"job": job})
}
