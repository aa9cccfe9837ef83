package repository

import (
	"strings"
	"testing"
)

func TestBuildLikeConditionSQLite(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"name", "sku", ""})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "name LIKE ? OR sku LIKE ?" {
		t.Fatalf("condition mismatch, got %s", condition)
	}
}

func TestBuildLikeConditionPostgres(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("postgres", []string{"email"})
	if argCount != 1 {
		t.Fatalf("arg count want 1 got %d", argCount)
	}
	if !strings.Contains(condition, "email ILIKE ?") {
		t.Fatalf("condition should use ILIKE, got %s", condition)
	}
}

func TestDateBucketExprByDialect(t *testing.T) {
	if got := dateBucketExprByDialect("sqlite", "paid_at", "day"); got != "strftime('%Y-%m-%d', paid_at)" {
		t.Fatalf("sqlite day expr mismatch, got %s", got)
	}
	if got := dateBucketExprByDialect("sqlite", "paid_at", "month"); got != "strftime('%Y-%m', paid_at)" {
		t.Fatalf("sqlite month expr mismatch, got %s", got)
	}
	if got := dateBucketExprByDialect("postgres", "paid_at", "day"); got != "to_char(paid_at, 'YYYY-MM-DD')" {
		t.Fatalf("postgres day expr mismatch, got %s", got)
	}
	if got := dateBucketExprByDialect("postgresql", "paid_at", "month"); got != "to_char(paid_at, 'YYYY-MM')" {
		t.Fatalf("postgres month expr mismatch, got %s", got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
