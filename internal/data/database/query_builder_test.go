package database

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name     string
		opts     *ListQueryOptions
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "basic select",
			opts:    NewListQueryOptions("job"),
			wantSQL: `SELECT * FROM "job"`,
		},
		{
			name:    "qualified columns with alias",
			opts:    NewListQueryOptions("job", WithColumns("job.id", "job.title AS job_title")),
			wantSQL: `SELECT "job"."id", "job"."title" AS "job_title" FROM "job"`,
		},
		{
			name: "equal then limit numbered in order",
			opts: NewListQueryOptions("user",
				WithColumns("id", "email"),
				WithCondition(WhereCond("email", Equal, "ada@example.com")),
				WithOrderBy("ASC", "id"),
				WithLimit(1),
			),
			wantSQL:  `SELECT "id", "email" FROM "user" WHERE "email" = $1 ORDER BY "id" ASC LIMIT $2`,
			wantArgs: []any{"ada@example.com", 1},
		},
		{
			name: "in sized to the slice",
			opts: NewListQueryOptions("job",
				WithColumns("id"),
				WithCondition(WhereCond("id", In, []int64{4, 8, 15})),
			),
			wantSQL:  `SELECT "id" FROM "job" WHERE "id" IN ($1, $2, $3)`,
			wantArgs: []any{int64(4), int64(8), int64(15)},
		},
		{
			name: "empty in matches nothing",
			opts: NewListQueryOptions("job",
				WithCondition(WhereCond("id", In, []int64{})),
			),
			wantSQL: `SELECT * FROM "job" WHERE 1 = 0`,
		},
		{
			name: "in with non-slice value is skipped",
			opts: NewListQueryOptions("job",
				WithCondition(WhereCond("id", In, 3)),
			),
			wantSQL: `SELECT * FROM "job"`,
		},
		{
			name: "order by multiple columns and zero limit",
			opts: NewListQueryOptions("job",
				WithOrderBy("desc", "job.title", "job.id"),
				WithLimit(0),
			),
			wantSQL:  `SELECT * FROM "job" ORDER BY "job"."title", "job"."id" DESC LIMIT $1`,
			wantArgs: []any{0},
		},
		{
			name: "invalid order direction dropped",
			opts: NewListQueryOptions("job",
				WithOrderBy("sideways", "id"),
			),
			wantSQL: `SELECT * FROM "job" ORDER BY "id"`,
		},
		{
			name: "documents joined to jobs filtered by job ids",
			opts: NewListQueryOptions("working_document",
				WithColumns("working_document.id", "job.title AS job_title"),
				WithJoin(InnerJoin, "job_document_relation", "job_document_relation.document_id", "working_document.id"),
				WithJoin(InnerJoin, "job", "job.id", "job_document_relation.job_id"),
				WithCondition(WhereCond("job.id", In, []int64{1, 2})),
				WithOrderBy("ASC", "working_document.id", "job.id"),
			),
			wantSQL: `SELECT "working_document"."id", "job"."title" AS "job_title" FROM "working_document"` +
				` JOIN "job_document_relation" ON "job_document_relation"."document_id" = "working_document"."id"` +
				` JOIN "job" ON "job"."id" = "job_document_relation"."job_id"` +
				` WHERE "job"."id" IN ($1, $2) ORDER BY "working_document"."id", "job"."id" ASC`,
			wantArgs: []any{int64(1), int64(2)},
		},
		{
			name: "incomplete join skipped",
			opts: NewListQueryOptions("user",
				WithJoin(InnerJoin, "user_job_relation", "user_job_relation.user_id", "user.id"),
				WithJoin(InnerJoin, "job", "", "user_job_relation.job_id"),
			),
			wantSQL: `SELECT * FROM "user" JOIN "user_job_relation" ON "user_job_relation"."user_id" = "user"."id"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := BuildListQuery(tt.opts)
			if query != tt.wantSQL {
				t.Errorf("query mismatch\n got: %s\nwant: %s", query, tt.wantSQL)
			}
			if len(tt.wantArgs) == 0 && len(args) == 0 {
				return
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildListQuery_UnsupportedConditionSkipped(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("job",
		WithCondition(WhereCond("title", ConditionType("LIKE"), "%audit%")),
		WithCondition(WhereCond("id", Equal, 2)),
	))
	if want := `SELECT * FROM "job" WHERE "id" = $1`; query != want {
		t.Errorf("query = %s, want %s", query, want)
	}
	if !reflect.DeepEqual(args, []any{2}) {
		t.Errorf("args = %#v", args)
	}
}

func TestBuildListQuery_Nil(t *testing.T) {
	query, args := BuildListQuery(nil)
	if query != "" || args != nil {
		t.Errorf("BuildListQuery(nil) = %q, %v", query, args)
	}
}

func TestBuildListQuery_SQLInjectionPrevention(t *testing.T) {
	opts := NewListQueryOptions(`job"; DROP TABLE job; --`,
		WithColumns(`title"; DELETE FROM job; --`),
		WithCondition(WhereCond(`id" OR 1=1 --`, Equal, 1)),
	)
	query, args := BuildListQuery(opts)

	for _, fragment := range []string{`"job""; DROP TABLE job; --"`, `"title""; DELETE FROM job; --"`, `"id"" OR 1=1 --" = $1`} {
		if !strings.Contains(query, fragment) {
			t.Errorf("expected quoted fragment %q in %q", fragment, query)
		}
	}
	if len(args) != 1 {
		t.Errorf("expected 1 arg, got %d", len(args))
	}
}
