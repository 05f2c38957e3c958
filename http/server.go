// Package http 提供HTTP服务器功能
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"linserve/monitoring"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	config ServerConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Addr           string
	Timeout        time.Duration
	AllowedOrigins []string
}

// DefaultServerConfig 默认服务器配置
func DefaultServerConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:           addr,
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"*"},
	}
}

// NewServer 创建HTTP服务器。hub可以为nil，此时不注册监控端点
func NewServer(config ServerConfig, handler *Handler, hub *monitoring.Hub) *Server {
	mux := http.NewServeMux()
	handler.Register(mux)

	// 创建中间件链
	chain := Chain(
		RecoveryMiddleware,                    // 1. 恢复中间件（最先执行，捕获panic）
		LoggerMiddleware,                      // 2. 日志中间件
		SecurityHeadersMiddleware,             // 3. 安全头中间件
		CORSMiddleware(config.AllowedOrigins), // 4. CORS中间件
		TimeoutMiddleware(config.Timeout),     // 5. 超时中间件
	)

	// WebSocket升级需要劫持连接，绕过中间件链
	root := http.NewServeMux()
	if hub != nil {
		root.HandleFunc("GET /api/ws/monitor", hub.HandleWebSocket)
	}
	root.Handle("/", chain(mux))

	return &Server{
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      root,
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
		config: config,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	log.Printf("Starting HTTP server on %s", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop 停止服务器
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Println("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// Addr 返回服务器地址
func (s *Server) Addr() string {
	return s.server.Addr
}
