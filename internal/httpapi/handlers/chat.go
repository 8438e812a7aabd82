package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/health-chat/internal/chat"
	"github.com/suPer8Hu/health-chat/internal/common"
	"github.com/suPer8Hu/health-chat/internal/document"
	"github.com/suPer8Hu/health-chat/internal/httpapi/middleware"
)

type chatForm struct {
	UserID         string                `form:"user_id" binding:"required"`
	Message        string                `form:"message" binding:"required"`
	UserConditions []string              `form:"user_conditions"`
	File           *multipart.FileHeader `form:"file"`
}

// Chat handles POST /chat/ (multipart form).
func (h *Handler) Chat(c *gin.Context) {
	var req chatForm
	if err := c.ShouldBind(&req); err != nil {
		common.Fail(c, http.StatusUnprocessableEntity, "user_id and message are required")
		return
	}
	rid := c.GetString(middleware.RequestIDKey)
	log.Printf("[Chat] received request_id=%s user_id=%s conditions=%v file=%t",
		rid, req.UserID, req.UserConditions, req.File != nil)

	in := chat.Request{
		UserID:     req.UserID,
		Message:    req.Message,
		Conditions: req.UserConditions,
	}
	if req.File != nil {
		f, err := req.File.Open()
		if err != nil {
			log.Printf("[Chat] open upload failed request_id=%s user_id=%s err=%v", rid, req.UserID, err)
			common.Fail(c, http.StatusInternalServerError, "Unexpected error: "+err.Error())
			return
		}
		defer f.Close()
		in.File = &chat.Upload{Filename: req.File.Filename, Body: f}
	}

	reply, err := h.ChatSvc.Handle(c.Request.Context(), in)
	if err != nil {
		status, detail := chatErrorStatus(err)
		log.Printf("[Chat] failed request_id=%s user_id=%s status=%d err=%v", rid, req.UserID, status, err)
		common.Fail(c, status, detail)
		return
	}

	common.OK(c, gin.H{"response": reply})
}

// ChatHistory handles GET /chat/history/?user_id=...
func (h *Handler) ChatHistory(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		common.Fail(c, http.StatusUnprocessableEntity, "user_id is required")
		return
	}

	entries, err := h.ChatSvc.ListHistory(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[ChatHistory] list failed request_id=%s user_id=%s err=%v",
			c.GetString(middleware.RequestIDKey), userID, err)
		common.Fail(c, http.StatusInternalServerError, "Unexpected error: "+err.Error())
		return
	}

	common.OK(c, gin.H{"history": entries})
}

func chatErrorStatus(err error) (int, string) {
	var (
		unsupported *document.UnsupportedFormatError
		extraction  *document.ExtractionError
		invalid     *chat.InvalidAIResponseError
		timeout     *chat.TimeoutError
	)
	switch {
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, "Unsupported file format! Please upload a PDF or DOCX file."
	case errors.As(err, &extraction):
		return http.StatusInternalServerError,
			fmt.Sprintf("Failed to extract text from %s: %v", strings.ToUpper(string(extraction.Format)), extraction.Err)
	case errors.As(err, &invalid):
		return http.StatusInternalServerError, "Invalid AI response."
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, "AI service did not respond in time."
	default:
		return http.StatusInternalServerError, "Unexpected error: " + err.Error()
	}
}
