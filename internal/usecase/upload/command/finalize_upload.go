package command

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/pkg/checksum"
)

// FinalizeUploadCommand はマルチパートアップロードの確定処理です
// 外部には公開されず、最後のパートを記録した呼び出しだけが実行します。
// 勝者の選出はMultipartSession.RecordPartのラッチで保証されます。
type FinalizeUploadCommand struct {
	uploadRepo      repository.UploadRepository
	fileStorageRepo repository.FileStorageRepository
	providerRepo    repository.StorageProviderRepository
	gateway         service.StorageGateway
	sessions        service.SessionTable
	progress        service.ProgressCache
	txManager       repository.TransactionManager

	providerName string
}

// NewFinalizeUploadCommand は新しいFinalizeUploadCommandを作成します
func NewFinalizeUploadCommand(
	uploadRepo repository.UploadRepository,
	fileStorageRepo repository.FileStorageRepository,
	providerRepo repository.StorageProviderRepository,
	gateway service.StorageGateway,
	sessions service.SessionTable,
	progress service.ProgressCache,
	txManager repository.TransactionManager,
	providerName string,
) *FinalizeUploadCommand {
	return &FinalizeUploadCommand{
		uploadRepo:      uploadRepo,
		fileStorageRepo: fileStorageRepo,
		providerRepo:    providerRepo,
		gateway:         gateway,
		sessions:        sessions,
		progress:        progress,
		txManager:       txManager,
		providerName:    providerName,
	}
}

// Execute はアップロードを確定します
// ストレージ側の結合に失敗した場合、アップロードはfailedへ遷移し、
// リモートセッションは中断されます。
func (c *FinalizeUploadCommand) Execute(ctx context.Context, upload *entity.Upload, session *entity.MultipartSession) error {
	parts := session.SortedParts()

	// 1. ストレージ側でパートを結合
	if err := c.gateway.CompleteMultipartUpload(ctx, session.StorageKey.String(), session.RemoteUploadID, parts); err != nil {
		c.abandon(ctx, upload, session, "storage finalize failed: "+err.Error())
		return err
	}

	storageURL, err := c.gateway.GetFileURL(ctx, session.StorageKey.String())
	if err != nil {
		c.abandon(ctx, upload, session, "failed to resolve storage URL: "+err.Error())
		return err
	}
	cdnURL := c.gateway.GetCDNURL(session.StorageKey.String())

	aggregate := c.aggregateChecksum(upload, parts)

	// 2. 完了状態と保存記録を永続化
	err = c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := upload.Complete(storageURL, cdnURL); err != nil {
			return err
		}
		if err := c.uploadRepo.Update(ctx, upload); err != nil {
			return err
		}

		provider, err := c.providerRepo.FindByName(ctx, c.providerName)
		if err != nil {
			return err
		}

		fileStorage := entity.NewFileStorage(
			upload.ID,
			provider.ID,
			session.StorageKey,
			upload.OriginalFileName,
			session.TotalSize(),
			upload.MimeType,
			aggregate,
			cdnURL,
			upload.Metadata,
		)
		return c.fileStorageRepo.Create(ctx, fileStorage)
	})
	if err != nil {
		c.abandon(ctx, upload, session, "failed to persist completion: "+err.Error())
		return err
	}

	// 3. セッション破棄と進捗反映
	c.sessions.Remove(upload.ID)
	c.progress.SetProgress(ctx, upload.ID, 100)

	slog.Info("upload finalized",
		"upload_id", upload.ID,
		"parts", len(parts),
		"total_size", session.TotalSize(),
	)
	return nil
}

// abandon は確定失敗時の後始末を行います
func (c *FinalizeUploadCommand) abandon(ctx context.Context, upload *entity.Upload, session *entity.MultipartSession, reason string) {
	if err := c.gateway.AbortMultipartUpload(ctx, session.StorageKey.String(), session.RemoteUploadID); err != nil {
		slog.Warn("failed to abort remote multipart upload", "upload_id", upload.ID, "error", err)
	}
	c.sessions.Remove(upload.ID)
	c.progress.Delete(ctx, upload.ID)

	if err := upload.Fail(reason); err != nil {
		slog.Warn("failed to transition upload to failed", "upload_id", upload.ID, "error", err)
		return
	}
	if err := c.uploadRepo.Update(ctx, upload); err != nil {
		slog.Error("failed to persist upload failure", "upload_id", upload.ID, "error", err)
	}
}

// aggregateChecksum はパートのダイジェストから集約チェックサムを計算します
// server_proxiedでは受信時に計算したSHA-256、client_directではストレージの
// ETagをダイジェストとして使用します。
func (c *FinalizeUploadCommand) aggregateChecksum(upload *entity.Upload, parts []entity.CompletedPart) string {
	digests := make([]checksum.PartDigest, 0, len(parts))
	for _, p := range parts {
		digest := p.Checksum
		if digest == "" {
			digest = strings.Trim(p.ETag, `"`)
		}
		digests = append(digests, checksum.PartDigest{
			PartNumber: p.PartNumber,
			Checksum:   digest,
		})
	}

	aggregate, err := checksum.Aggregate(digests)
	if err != nil {
		slog.Warn("failed to aggregate part checksums", "upload_id", upload.ID, "error", err)
		return ""
	}
	return aggregate
}
