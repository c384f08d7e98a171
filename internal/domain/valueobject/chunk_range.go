package valueobject

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidChunkIndex = errors.New("chunk index must be non-negative")
	ErrInvalidChunkSize  = errors.New("chunk size must be positive")
)

// ChunkRange はチャンクが占めるバイトレンジ [Start, End) を表す値オブジェクト
// オフセットはプロトコル上の公称チャンクサイズから、長さは実際の
// チャンクサイズから計算します。最終チャンクだけが公称サイズより短くなれます。
type ChunkRange struct {
	start int64
	end   int64
}

// NewChunkRange はチャンクインデックスと実サイズからChunkRangeを計算します
func NewChunkRange(chunkIndex int, nominalSize, actualSize int64) (ChunkRange, error) {
	if chunkIndex < 0 {
		return ChunkRange{}, ErrInvalidChunkIndex
	}
	if nominalSize <= 0 || actualSize <= 0 {
		return ChunkRange{}, ErrInvalidChunkSize
	}

	start := int64(chunkIndex) * nominalSize
	return ChunkRange{
		start: start,
		end:   start + actualSize,
	}, nil
}

// ReconstructChunkRange はDBからChunkRangeを復元します
func ReconstructChunkRange(start, end int64) ChunkRange {
	return ChunkRange{start: start, end: end}
}

// Start は開始オフセット（含む）を返します
func (r ChunkRange) Start() int64 {
	return r.start
}

// End は終了オフセット（含まない）を返します
func (r ChunkRange) End() int64 {
	return r.end
}

// Length はレンジのバイト長を返します
func (r ChunkRange) Length() int64 {
	return r.end - r.start
}

// String はデバッグ用表現を返します
func (r ChunkRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.start, r.end)
}
