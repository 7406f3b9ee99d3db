package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// PostgreSQL の timestamptz に合わせてマイクロ秒へ丸めます。
func (realClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は社員レコードのライフサイクルと認可をまとめます。
// すべての操作は単一のロックで直列化されます。
type Service struct {
	mu     sync.Mutex
	store  Store
	ids    IDAllocator
	clock  Clock
	tx     TransactionManager
	logger *slog.Logger
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	ListOwnedEmployees(ctx context.Context, in ListOwnedEmployeesInput) ([]*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	SetRating(ctx context.Context, in SetRatingInput) (*Employee, error)
	ToggleTransferable(ctx context.Context, in ToggleTransferableInput) (string, error)
	ClaimTransfer(ctx context.Context, in ClaimTransferInput) (string, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (string, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithLogger はロガーを設定します。
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService は Service を生成します。
func NewService(store Store, ids IDAllocator, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		store:  store,
		ids:    ids,
		clock:  clock,
		tx:     tx,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListOwnedEmployeesInput は雇用中の社員一覧取得の入力です。
type ListOwnedEmployeesInput struct {
	Caller string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	Caller string
	ID     uint64
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Caller string
	Name   string
	Email  string
}

// SetRatingInput は評価設定時の入力です。
type SetRatingInput struct {
	Caller string
	ID     uint64
	Rating string
}

// ToggleTransferableInput は移籍可否切り替え時の入力です。
type ToggleTransferableInput struct {
	Caller string
	ID     uint64
}

// ClaimTransferInput は移籍受け入れ時の入力です。
type ClaimTransferInput struct {
	Caller string
	ID     uint64
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	Caller string
	ID     uint64
}

// ListOwnedEmployees は caller が雇用している社員を ID 昇順で返します。
// 該当がない場合は空スライスではなく ErrNoEmployees を返します。
func (s *Service) ListOwnedEmployees(ctx context.Context, in ListOwnedEmployeesInput) ([]*Employee, error) {
	caller, err := normalizeCaller(in.Caller)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		all, err := s.store.List(txCtx)
		if err != nil {
			return fmt.Errorf("list employees: %w", err)
		}
		for _, emp := range all {
			if emp.OwnedBy(caller) {
				owned = append(owned, emp)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if len(owned) == 0 {
		return nil, ErrNoEmployees
	}
	return owned, nil
}

// GetEmployee は caller が雇用している社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	caller, err := normalizeCaller(in.Caller)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.find(txCtx, in.ID)
		if err != nil {
			return err
		}
		if !found.OwnedBy(caller) {
			return ErrNotEmployer
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateEmployee は caller を雇用主として新しい社員を作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	caller, err := normalizeCaller(in.Caller)
	if err != nil {
		return nil, err
	}

	name, email := in.Name, in.Email
	if name == "" {
		return nil, ErrInvalidName
	}
	if email == "" {
		return nil, ErrInvalidEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		id, err := s.ids.Next(txCtx)
		if err != nil {
			return fmt.Errorf("allocate employee id: %w", err)
		}

		now := s.clock.Now()
		emp := &Employee{
			ID:           id,
			Name:         name,
			Email:        email,
			EmployerID:   caller,
			Transferable: false,
			CreatedAt:    now,
			UpdatedAt:    &now,
		}

		if _, err := s.store.Insert(txCtx, emp); err != nil {
			return fmt.Errorf("insert employee %d: %w", id, err)
		}

		created = emp
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "employee created", "employee_id", created.ID, "employer_id", caller)
	return created.Clone(), nil
}

// SetRating は社員の評価を設定します。評価値は store に触れる前に検証します。
func (s *Service) SetRating(ctx context.Context, in SetRatingInput) (*Employee, error) {
	caller, err := normalizeCaller(in.Caller)
	if err != nil {
		return nil, err
	}

	rating, err := ParseRating(in.Rating)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		found, err := s.find(txCtx, in.ID)
		if err != nil {
			return err
		}
		if !found.OwnedBy(caller) {
			return ErrNotEmployer
		}

		found.Rating = &rating
		s.touch(found)

		if err := s.save(txCtx, found); err != nil {
			return err
		}
		updated = found
		return nil
	}); err != nil {
		return nil, err
	}

	return updated.Clone(), nil
}

// ToggleTransferable は移籍可否フラグを反転します。雇用主のみ実行できます。
func (s *Service) ToggleTransferable(ctx context.Context, in ToggleTransferableInput) (string, error) {
	caller, err := normalizeCaller(in.Caller)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var transferable bool
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		found, err := s.find(txCtx, in.ID)
		if err != nil {
			return err
		}
		if !found.OwnedBy(caller) {
			return ErrNotOwner
		}

		found.Transferable = !found.Transferable
		s.touch(found)

		if err := s.save(txCtx, found); err != nil {
			return err
		}
		transferable = found.Transferable
		return nil
	}); err != nil {
		return "", err
	}

	return fmt.Sprintf("Employee with ID: %d has transferable toggled to: %t", in.ID, transferable), nil
}

// ClaimTransfer は移籍可能な社員を caller の雇用下に移します。
// 移籍後も Transferable はリセットしません。
func (s *Service) ClaimTransfer(ctx context.Context, in ClaimTransferInput) (string, error) {
	caller, err := normalizeCaller(in.Caller)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var previousEmployer string
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		found, err := s.find(txCtx, in.ID)
		if err != nil {
			return err
		}
		if !found.Transferable {
			return ErrNotTransferable
		}

		previousEmployer = found.EmployerID
		found.EmployerID = caller
		s.touch(found)

		return s.save(txCtx, found)
	}); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "employee transferred", "employee_id", in.ID, "from", previousEmployer, "to", caller)
	return fmt.Sprintf("Employee with ID: %d has been added to your employ", in.ID), nil
}

// DeleteEmployee は社員を削除します。所有者確認は削除前の参照で行います。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (string, error) {
	caller, err := normalizeCaller(in.Caller)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		found, err := s.find(txCtx, in.ID)
		if err != nil {
			return err
		}
		if !found.OwnedBy(caller) {
			return ErrNotOwner
		}

		if _, err := s.store.Remove(txCtx, in.ID); err != nil {
			return fmt.Errorf("remove employee %d: %w", in.ID, err)
		}
		return nil
	}); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "employee deleted", "employee_id", in.ID, "employer_id", caller)
	return fmt.Sprintf("Employee with ID: %d has been deleted", in.ID), nil
}

func (s *Service) find(ctx context.Context, id uint64) (*Employee, error) {
	found, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, fmt.Errorf("employee %d: %w", id, ErrEmployeeNotFound)
		}
		return nil, fmt.Errorf("get employee %d: %w", id, err)
	}
	return found, nil
}

func (s *Service) save(ctx context.Context, emp *Employee) error {
	if _, err := s.store.Insert(ctx, emp); err != nil {
		return fmt.Errorf("update employee %d: %w", emp.ID, err)
	}
	return nil
}

func (s *Service) touch(emp *Employee) {
	now := s.clock.Now()
	emp.UpdatedAt = &now
}

// normalizeCaller は空白のみの caller を拒否します。
// プリンシパルは不透明な文字列として扱い、値そのものは書き換えません。
func normalizeCaller(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalidCaller
	}
	return raw, nil
}
