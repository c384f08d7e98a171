package worker

import (
	"context"
	"log/slog"
	"time"
)

// NewHealthCheckJob はヘルスチェックジョブを作成します（データベース・ストレージ接続確認など）
func NewHealthCheckJob(checkFn func(ctx context.Context) error) Job {
	return Job{
		Name:     "health_check",
		Interval: 5 * time.Minute,
		Timeout:  30 * time.Second,
		Fn: func(ctx context.Context) error {
			if err := checkFn(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				return err
			}
			return nil
		},
	}
}

// NewSessionGaugeJob はアクティブなマルチパートセッション数を定期的に記録するジョブを作成します
// セッションテーブルはインメモリのため、運用上の観測はこのログに依存します。
func NewSessionGaugeJob(countFn func() int) Job {
	return Job{
		Name:     "session_gauge",
		Interval: 1 * time.Minute,
		Fn: func(ctx context.Context) error {
			slog.Info("active multipart sessions", "count", countFn())
			return nil
		},
	}
}
