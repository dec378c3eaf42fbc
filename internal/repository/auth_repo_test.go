package repository

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"beltsense/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewUserRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		passwordHash   string
		mockExpect     func(sqlmock.Sqlmock)
		wantID         int
		wantErr        bool
		errContainsStr string
	}{
		{
			name:         "success",
			username:     "alice",
			passwordHash: "h123",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("alice", "h123").
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			wantID: 42,
		},
		{
			name:         "exec error",
			username:     "bob",
			passwordHash: "h456",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("bob", "h456").
					WillReturnError(errors.New("db exec failed"))
			},
			wantErr:        true,
			errContainsStr: "insert user",
		},
		{
			name:         "last insert id error",
			username:     "carol",
			passwordHash: "h789",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("carol", "h789").
					WillReturnResult(sqlmock.NewErrorResult(errors.New("no last id")))
			},
			wantErr:        true,
			errContainsStr: "get last insert id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockUserRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			id, err := repo.Create(tt.username, tt.passwordHash)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Create() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContainsStr) {
					t.Fatalf("Create() error = %v, want containing %q", err, tt.errContainsStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if id != tt.wantID {
				t.Fatalf("Create() id = %d, want %d", id, tt.wantID)
			}
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).
			AddRow(1, "alice", "h123"))

	got, err := repo.GetByUsername("alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	want := &models.User{ID: 1, Username: "alice", PasswordHash: "h123"}
	if got == nil || *got != *want {
		t.Fatalf("GetByUsername() = %+v, want %+v", got, want)
	}
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))

	got, err := repo.GetByUsername("ghost")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got != nil {
		t.Fatalf("GetByUsername() = %+v, want nil for missing user", got)
	}
}
