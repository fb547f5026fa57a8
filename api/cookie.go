package api

import (
	"net/http"

	"finlogix/config"

	"github.com/gin-gonic/gin"
)

// refreshCookiePath 刷新令牌 Cookie 只随刷新请求发送
const refreshCookiePath = "/auth/refresh"

// getCookieOptions 根据运行模式返回 Cookie 的安全选项
// release 模式下启用 Secure（仅 HTTPS 传输），并设置 SameSite 以防止 CSRF
func getCookieOptions() (secure bool, sameSite http.SameSite) {
	if config.IsRelease() {
		secure = true
	}
	sameSite = http.SameSiteLaxMode
	return
}

// setRefreshCookie 写入 HttpOnly 的刷新令牌 Cookie，maxAge 为 -1 时删除
func setRefreshCookie(c *gin.Context, name, token string, maxAge int) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(name, token, maxAge, refreshCookiePath, "", secure, true)
}
