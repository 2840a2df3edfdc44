package repositories

import (
	"context"

	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/valueobjects"
)

// 試着生成サービス
type TryOnGenerator interface {
	GenerateTryOn(ctx context.Context, request *entities.TryOnRequest) (*entities.TryOnResult, error)

	Close() error
}

// 商品URLから商品画像を解決するサービス
// 画像が見つからない場合は空のImageRefを返す
type ProductResolver interface {
	Resolve(ctx context.Context, url string) (valueobjects.ImageRef, error)
}

// 試着画像の合成サービス（任意）
type TryOnRenderer interface {
	Render(ctx context.Context, request *entities.TryOnRequest) (valueobjects.ImageRef, error)
}

// ImageRefの実体（バイト列）を取得する
type ImageFetcher interface {
	Fetch(ctx context.Context, ref valueobjects.ImageRef) (*valueobjects.ImageData, error)
}
