package web

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/dep/logging"
)

// Server 运行中的 HTTP 服务器。
// 监听在创建时同步建立，句柄关闭时优雅停机。
type Server struct {
	engine *gin.Engine
	server *http.Server
	addr   string
	logger logging.Logger
	done   chan struct{}
}

// newServer 构建引擎、建立监听并在后台启动服务
func newServer(o *Options) (*Server, error) {
	gin.SetMode(o.Mode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	if o.Configure != nil {
		o.Configure(engine)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", o.Port))
	if err != nil {
		return nil, fmt.Errorf("web: listen on port %d: %w", o.Port, err)
	}

	s := &Server{
		engine: engine,
		server: &http.Server{Handler: engine},
		addr:   ln.Addr().String(),
		logger: o.Logger,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("web server error", logging.Field{Key: "error", Value: err.Error()})
		}
	}()

	o.Logger.Info("web server started",
		logging.Field{Key: "name", Value: o.Name},
		logging.Field{Key: "address", Value: s.addr})

	return s, nil
}

// Engine 返回 Gin 引擎（用于高级定制）。
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr 返回实际监听地址 (e.g., "[::]:50234")。
func (s *Server) Addr() string {
	return s.addr
}

// shutdown 优雅停机并等待 Serve 退出
func (s *Server) shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("web server stopped", logging.Field{Key: "address", Value: s.addr})
	return nil
}
