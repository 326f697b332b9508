package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type stubExecutor struct {
	execTag pgconn.CommandTag
	execErr error
	row     stubRow
	queries []string
}

func (s *stubExecutor) Exec(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
	s.queries = append(s.queries, query)
	return s.execTag, s.execErr
}

func (s *stubExecutor) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	s.queries = append(s.queries, query)
	return s.row
}

func (s *stubExecutor) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	s.queries = append(s.queries, query)
	return nil, errors.New("query not stubbed")
}

var _ infra.SQLExecutor = (*stubExecutor)(nil)

func TestAssetGetByIDMapsNoRows(t *testing.T) {
	r := NewAssetRepository(&stubExecutor{})
	_, err := r.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAssetDeleteMissingIsNotFound(t *testing.T) {
	r := NewAssetRepository(&stubExecutor{execTag: pgconn.NewCommandTag("DELETE 0")})
	err := r.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestContextVersionUpdateMissingIsNotFound(t *testing.T) {
	r := NewContextVersionRepository(&stubExecutor{execTag: pgconn.NewCommandTag("UPDATE 0")})
	_, err := r.Update(context.Background(), &domain.ContextVersion{ID: "missing", Name: "v2"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestContextVersionDeleteMissingIsNotFound(t *testing.T) {
	r := NewContextVersionRepository(&stubExecutor{execTag: pgconn.NewCommandTag("DELETE 0")})
	err := r.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEnsureSchemaRunsEveryStatement(t *testing.T) {
	stub := &stubExecutor{execTag: pgconn.NewCommandTag("CREATE TABLE")}
	if err := EnsureSchema(context.Background(), stub); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if len(stub.queries) != 3 {
		t.Fatalf("statements = %d, want 3", len(stub.queries))
	}
}
