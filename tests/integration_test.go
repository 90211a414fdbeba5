package tests

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gocrud/dep"
	"github.com/gocrud/dep/config"
	"github.com/gocrud/dep/database"
	"github.com/gocrud/dep/web"
)

type Article struct {
	ID    uint `gorm:"primaryKey"`
	Title string
}

// TestConfigDatabaseWeb 完整链路：配置驱动数据库与 Web 服务器，
// 三个资源在同一容器内按引用计数共享与释放。
func TestConfigDatabaseWeb(t *testing.T) {
	c := dep.NewContainer()

	configFile := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("app:\n  name: integration\ndatabase:\n  path: ':memory:'\n"), 0o644))

	cfg := config.DepIn(c, func(b *config.Builder) {
		b.AddYamlFile(configFile, false)
	})

	db := database.DepIn(c, "main", database.SQLite(":memory:"), func(o *database.Options) {
		o.AutoMigrate = []any{&Article{}}
		o.MaxOpenConns = 1
	})

	srv := web.DepIn(c, "api", func(o *web.Options) {
		o.Port = 0
		o.Mode = gin.TestMode
	})

	ctx := context.Background()
	var addr string

	err := cfg.Use(ctx, func(ctx context.Context, conf config.Configuration) error {
		require.Equal(t, "integration", conf.Get("app:name"))

		return db.Use(ctx, func(ctx context.Context, gdb *gorm.DB) error {
			require.NoError(t, gdb.Create(&Article{Title: "hello"}).Error)

			return srv.Use(ctx, func(ctx context.Context, s *web.Server) error {
				addr = s.Addr()
				s.Engine().GET("/articles/count", func(gc *gin.Context) {
					var count int64
					if err := gdb.Model(&Article{}).Count(&count).Error; err != nil {
						gc.String(http.StatusInternalServerError, err.Error())
						return
					}
					gc.String(http.StatusOK, "%d", count)
				})

				resp, err := http.Get(localURL(s.Addr()) + "/articles/count")
				require.NoError(t, err)
				defer resp.Body.Close()

				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, "1", string(body))
				return nil
			})
		})
	})
	require.NoError(t, err)

	// 所有句柄关闭后服务器应已停机
	client := &http.Client{Timeout: time.Second}
	_, err = client.Get(localURL(addr) + "/articles/count")
	assert.Error(t, err, "server must stop after the last handle closes")
}

// localURL 监听地址形如 "[::]:50234"，取端口拼接回环地址
func localURL(addr string) string {
	idx := strings.LastIndex(addr, ":")
	return "http://127.0.0.1" + addr[idx:]
}

// TestOverrideSwapsDatabase 覆盖让同一声明在测试作用域内解析到替身实现。
func TestOverrideSwapsDatabase(t *testing.T) {
	c := dep.NewContainer()

	prod := dep.StubIn[*gorm.DB](c, "database:prod")

	test := database.DepIn(c, "test", database.SQLite(":memory:"), func(o *database.Options) {
		o.AutoMigrate = []any{&Article{}}
		o.MaxOpenConns = 1
	})

	ctx := context.Background()

	// 未覆盖时桩声明必须失败
	_, err := prod.Acquire(ctx)
	require.ErrorIs(t, err, dep.ErrNotImplemented)

	// 作用域内覆盖后解析到测试数据库
	scoped := dep.WithOverridesIn(ctx, c, dep.OverrideOf(prod, test))
	err = prod.Use(scoped, func(ctx context.Context, gdb *gorm.DB) error {
		return gdb.Create(&Article{Title: "swapped"}).Error
	})
	require.NoError(t, err)

	// 作用域外仍是桩
	_, err = prod.Acquire(ctx)
	assert.ErrorIs(t, err, dep.ErrNotImplemented)
}
