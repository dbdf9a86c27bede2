package database

import "testing"

func TestDialectProperties(t *testing.T) {
	tests := []struct {
		name             string
		dialect          Dialect
		driver           string
		subdir           string
		supportsInsertID bool
	}{
		{"sqlite", NewSQLiteDialect(), "sqlite3", "sqlite", true},
		{"postgres", NewPostgresDialect(), "postgres", "postgres", false},
		{"mysql", NewMySQLDialect(), "mysql", "mysql", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.subdir {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.subdir)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.supportsInsertID {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.supportsInsertID)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "sqlite passes through",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT id FROM babies WHERE family_id = ?",
			expected: "SELECT id FROM babies WHERE family_id = ?",
		},
		{
			name:     "mysql passes through",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE babies SET name = ? WHERE id = ?",
			expected: "UPDATE babies SET name = ? WHERE id = ?",
		},
		{
			name:     "postgres numbers single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT id FROM babies WHERE family_id = ?",
			expected: "SELECT id FROM babies WHERE family_id = $1",
		},
		{
			name:     "postgres numbers multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO babies (family_id, name) VALUES (?, ?)",
			expected: "INSERT INTO babies (family_id, name) VALUES ($1, $2)",
		},
		{
			name:     "postgres no placeholders",
			dialect:  NewPostgresDialect(),
			query:    "SELECT COUNT(*) FROM babies",
			expected: "SELECT COUNT(*) FROM babies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.RewriteQuery(tt.query); got != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", got, tt.expected)
			}
		})
	}
}
