package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/health-chat/internal/chat"
	"github.com/suPer8Hu/health-chat/internal/common"
)

type Handler struct {
	ChatSvc *chat.Service
}

func NewHandler(chatSvc *chat.Service) *Handler {
	return &Handler{ChatSvc: chatSvc}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"message": "pong"})
}
