package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
)

// Sum はデータのSHA-256ハッシュを16進文字列で返します
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// SumReader はリーダーの内容をストリーミングでハッシュ化します
func SumReader(reader io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PartDigest はマルチパートアップロードの1パート分のダイジェストを表します
type PartDigest struct {
	PartNumber int
	Checksum   string // パート内容のSHA-256（16進）
}

// Aggregate はパートダイジェストからファイル全体の合成ハッシュを計算します
// パート番号昇順に各パートのダイジェストバイト列をストリーミングでハッシュ化し、
// 末尾に "-{パート数}" を付けます（S3のマルチパートETagと同じ流儀）。
func Aggregate(parts []PartDigest) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("no part digests to aggregate")
	}

	sorted := make([]PartDigest, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})

	h := sha256.New()
	for _, part := range sorted {
		raw, err := hex.DecodeString(part.Checksum)
		if err != nil {
			return "", fmt.Errorf("invalid part checksum for part %d: %w", part.PartNumber, err)
		}
		h.Write(raw)
	}

	return fmt.Sprintf("%s-%d", hex.EncodeToString(h.Sum(nil)), len(sorted)), nil
}
