package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job は定期実行ジョブを定義します
// Timeoutを指定すると各実行にタイムアウト付きコンテキストが渡されます。
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Fn       func(ctx context.Context) error
}

// Manager はアップロードコーディネーターのバックグラウンドジョブを管理します
type Manager struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager は新しいManagerを作成します
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register は定期実行ジョブを登録します
func (m *Manager) Register(jobs ...Job) {
	m.jobs = append(m.jobs, jobs...)
}

// Start は登録済みジョブのループを開始します
func (m *Manager) Start() {
	for _, job := range m.jobs {
		m.wg.Add(1)
		go m.loop(job)
	}
	slog.Info("worker manager started", "jobs", len(m.jobs))
}

// loop は単一ジョブを初回即時、以降はInterval間隔で実行します
func (m *Manager) loop(job Job) {
	defer m.wg.Done()

	slog.Info("worker started", "job", job.Name, "interval", job.Interval)

	m.runOnce(job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			slog.Info("worker stopping", "job", job.Name)
			return
		case <-ticker.C:
			m.runOnce(job)
		}
	}
}

func (m *Manager) runOnce(job Job) {
	ctx := m.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	if err := job.Fn(ctx); err != nil {
		slog.Error("worker job failed", "job", job.Name, "error", err)
	}
}

// Shutdown は全ジョブの完了を待って停止します
// timeoutを超えた場合は実行中のジョブを待たずに戻ります。
func (m *Manager) Shutdown(timeout time.Duration) {
	slog.Info("shutting down worker manager...")
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("worker manager stopped gracefully")
	case <-time.After(timeout):
		slog.Warn("worker manager shutdown timed out")
	}
}
