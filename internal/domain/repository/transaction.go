package repository

import "context"

// TransactionManager はトランザクション管理のインターフェース
type TransactionManager interface {
	// WithTransaction はトランザクション内で関数を実行します
	// 成功時はコミット、エラー時はロールバックされます
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
