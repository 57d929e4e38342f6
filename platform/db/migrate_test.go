package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIndexModelNames(t *testing.T) {
	legacy := Index{Collection: "users", Field: "email", Unique: true}
	if got := *legacy.model().Options.Name; got != "email_1" {
		t.Fatalf("default name = %q", got)
	}

	ci := Index{Collection: "users", Field: "email", Name: "email_ci_unique", Unique: true, CaseInsensitive: true}
	opts := ci.model().Options
	if *opts.Name != "email_ci_unique" || !*opts.Unique {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Collation == nil || opts.Collation.Strength != 2 {
		t.Fatalf("expected a strength 2 collation, got %+v", opts.Collation)
	}
	if legacy.model().Options.Collation != nil {
		t.Fatal("plain index must not carry a collation")
	}
}

func TestIsIndexConflict(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"options conflict", mongo.CommandError{Code: 85, Name: "IndexOptionsConflict"}, true},
		{"key specs conflict", mongo.CommandError{Code: 86, Name: "IndexKeySpecsConflict"}, true},
		{"existing duplicates", mongo.CommandError{Code: 11000}, true},
		{"wrapped conflict", fmt.Errorf("create: %w", mongo.CommandError{Code: 85}), true},
		{"unauthorized", mongo.CommandError{Code: 13, Name: "Unauthorized"}, false},
		{"timeout", context.DeadlineExceeded, false},
		{"other", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := isIndexConflict(tc.err); got != tc.want {
			t.Errorf("%s: isIndexConflict = %v, want %v", tc.name, got, tc.want)
		}
	}
}
