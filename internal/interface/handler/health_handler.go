package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// HealthChecker は依存サービスの疎通確認を行うインターフェースです
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler は稼働状態のHTTPハンドラーです
// 依存サービスの疎通結果に加えて、アクティブなマルチパートセッション数の
// ような計測値も公開します。
type HealthHandler struct {
	checkers map[string]HealthChecker
	gauges   map[string]func() int
}

// NewHealthHandler は新しいHealthHandlerを作成します
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers: make(map[string]HealthChecker),
		gauges:   make(map[string]func() int),
	}
}

// RegisterChecker はヘルスチェッカーを登録します
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// RegisterGauge は計測値の提供元を登録します
func (h *HealthHandler) RegisterGauge(name string, fn func() int) {
	h.gauges[name] = fn
}

// HealthResponse はライブネスチェックレスポンスを定義します
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse はレディネスチェックレスポンスを定義します
type ReadyResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services,omitempty"`
	Gauges   map[string]int           `json:"gauges,omitempty"`
}

// ServiceStatus は依存サービスのステータスを定義します
type ServiceStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check はライブネスチェックを実行します
// GET /health
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Ready はレディネスチェックを実行します
// 全チェッカーを並行に実行し、1つでも失敗すると503を返します。
// GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	services := make(map[string]ServiceStatus)
	allHealthy := true

	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, checker := range h.checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()

			err := checker.Health(ctx)
			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				services[name] = ServiceStatus{
					Status:  "unhealthy",
					Message: err.Error(),
				}
				allHealthy = false
			} else {
				services[name] = ServiceStatus{
					Status: "healthy",
				}
			}
		}(name, checker)
	}

	wg.Wait()

	gauges := make(map[string]int, len(h.gauges))
	for name, fn := range h.gauges {
		gauges[name] = fn()
	}

	status := "ready"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, ReadyResponse{
		Status:   status,
		Services: services,
		Gauges:   gauges,
	})
}
