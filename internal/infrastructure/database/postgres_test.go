package database

import "testing"

func TestNormalizeDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain postgres", "postgres://u:p@db:5432/chat", "postgres://u:p@db:5432/chat"},
		{"plain postgresql", "postgresql://u:p@db:5432/chat?sslmode=disable", "postgresql://u:p@db:5432/chat?sslmode=disable"},
		{"asyncpg suffix", "postgresql+asyncpg://u:p@db:5432/chat", "postgresql://u:p@db:5432/chat"},
		{"short asyncpg suffix", "postgres+asyncpg://u:p@db:5432/chat", "postgres://u:p@db:5432/chat"},
		{"pgx suffix", "postgresql+pgx://u:p@db:5432/chat", "postgresql://u:p@db:5432/chat"},
		{"surrounding whitespace", "  postgres://u:p@db:5432/chat  ", "postgres://u:p@db:5432/chat"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeDSN(tt.in); got != tt.want {
				t.Errorf("normalizeDSN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
