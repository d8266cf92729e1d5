package database

import "testing"

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"", SQLite, false},
		{"SQLite", SQLite, false},
		{"sqlite3", SQLite, false},
		{"postgres", Postgres, false},
		{" pgx ", Postgres, false},
		{"mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDialect(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDialect(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDialect_Rebind(t *testing.T) {
	q := `UPDATE "working_document" SET "status" = $2 WHERE "id" = $1 AND $10 > 0`

	if got := Postgres.Rebind(q); got != q {
		t.Errorf("Postgres.Rebind changed query: %s", got)
	}

	want := `UPDATE "working_document" SET "status" = ?2 WHERE "id" = ?1 AND ?10 > 0`
	if got := SQLite.Rebind(q); got != want {
		t.Errorf("SQLite.Rebind = %s, want %s", got, want)
	}
}

func TestDialect_DriverName(t *testing.T) {
	if SQLite.DriverName() != "sqlite" {
		t.Errorf("SQLite driver = %s", SQLite.DriverName())
	}
	if Postgres.DriverName() != "pgx" {
		t.Errorf("Postgres driver = %s", Postgres.DriverName())
	}
}
