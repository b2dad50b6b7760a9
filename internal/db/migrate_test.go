package db

import "testing"

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@localhost:5432/app?sslmode=disable", "pgx5://u:p@localhost:5432/app?sslmode=disable"},
		{"postgresql://localhost/app", "pgx5://localhost/app"},
		{"pgx5://localhost/app", "pgx5://localhost/app"},
	}
	for _, tt := range tests {
		if got := MigrateURL(tt.in); got != tt.want {
			t.Errorf("MigrateURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
