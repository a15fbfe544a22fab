package public

import (
	"github.com/chamundam289/electro-hub-sub003/internal/provider"

	handlershared "github.com/chamundam289/electro-hub-sub003/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// Handler 前台/公开接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}
