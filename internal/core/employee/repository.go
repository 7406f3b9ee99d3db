package employee

import "context"

// Store は ID から社員への永続マップの抽象です。
// 各操作はコンテキスト内のトランザクションがあればそれに参加します。
type Store interface {
	// Get は存在しない場合 ErrEmployeeNotFound を返します。
	Get(ctx context.Context, id uint64) (*Employee, error)
	// Insert は e.ID をキーに保存し、直前の値 (なければ nil) を返します。
	Insert(ctx context.Context, e *Employee) (*Employee, error)
	// Remove は削除した値を返します。存在しない場合 ErrEmployeeNotFound を返します。
	Remove(ctx context.Context, id uint64) (*Employee, error)
	// List は ID 昇順の全件スナップショットを返します。
	List(ctx context.Context) ([]*Employee, error)
}

// IDAllocator は単調増加する社員 ID を払い出します。
type IDAllocator interface {
	Next(ctx context.Context) (uint64, error)
}
