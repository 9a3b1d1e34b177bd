package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
	opts     *sql.TxOptions
	begins   int
}

func (f *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.begins++
	f.opts = opts
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func TestDoSerializable_Commit(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
	assert.Equal(t, sql.LevelSerializable, beginner.opts.Isolation)
}

func TestDoSerializable_FnErrorRollsBack(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)
	errDomain := errors.New("domain failure")

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return errDomain
	})

	assert.ErrorIs(t, err, errDomain)
	assert.NotErrorIs(t, err, ErrSerialization)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestDoSerializable_BeginFailure(t *testing.T) {
	beginner := &fakeBeginner{beginErr: errors.New("dial tcp: connection refused")}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})

	assert.ErrorIs(t, err, ErrBeginTx)
	assert.False(t, IsSerializationFailure(err))
}

func TestDoSerializable_SerializationFailures(t *testing.T) {
	tests := []struct {
		name string
		code pq.ErrorCode
		want bool
	}{
		{name: "serialization_failure", code: "40001", want: true},
		{name: "deadlock_detected", code: "40P01", want: true},
		{name: "exclusion_violation", code: "23P01", want: true},
		{name: "unique_violation", code: "23505", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beginner := &fakeBeginner{tx: &fakeTx{}}
			m := NewTransactionManager(beginner)

			err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
				return fmt.Errorf("insert booking: %w", &pq.Error{Code: tt.code})
			})

			require.Error(t, err)
			assert.Equal(t, tt.want, errors.Is(err, ErrSerialization))
		})
	}
}

func TestDoSerializable_CommitSerializationFailure(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{commitErr: &pq.Error{Code: "40001"}}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrSerialization)
}

func TestDoSerializable_CommitOtherFailure(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("connection reset")}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrCommit)
	assert.NotErrorIs(t, err, ErrSerialization)
}

func TestDoSerializable_Nested(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, beginner.begins)
}

func TestDoReadOnly_Options(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	require.NoError(t, m.DoReadOnly(context.Background(), func(ctx context.Context) error { return nil }))
	assert.True(t, beginner.opts.ReadOnly)
}
