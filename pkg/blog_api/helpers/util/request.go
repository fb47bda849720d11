package util

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

// RequestMeta extracts the client metadata recorded on every ledger entry.
// The IP comes from the proxy header chain: first X-Forwarded-For entry when
// present, the socket peer address otherwise.
func RequestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{
		IpAddress: ClientIP(c),
		UserAgent: c.Request.UserAgent(),
	}
}

func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
