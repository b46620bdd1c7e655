// internal/workers/lead/create-lead-record/handler_test.go
package createleadrecord

import (
	"context"
	"database/sql"
	"testing"

	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func testInput() *Input {
	return &Input{
		Email:    "Omar.Khalid@example.com",
		FullName: "Omar Khalid Al Rashid",
		Phone:    "+971501112223",
		Requirements: &models.UserRequirements{
			Industry:  "trading",
			VisaCount: 3,
			Budget:    30000,
		},
	}
}

func TestExecute_CreatesLead(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO leads").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(LoadConfig(), leads.NewRepository(db), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), testInput())

	assert.NoError(t, err)
	assert.NotEmpty(t, output.LeadID)
	assert.Equal(t, models.LeadStatusNew, output.Status)
	assert.False(t, output.Duplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_MissingEmail(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	handler := NewHandler(LoadConfig(), leads.NewRepository(db), logger.NewTestLogger(t))

	input := testInput()
	input.Email = ""

	output, err := handler.Execute(context.Background(), input)

	assert.Error(t, err)
	assert.Nil(t, output)
}

func TestExecute_MissingRequirements(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	handler := NewHandler(LoadConfig(), leads.NewRepository(db), logger.NewTestLogger(t))

	input := testInput()
	input.Requirements = nil

	output, err := handler.Execute(context.Background(), input)

	assert.Error(t, err)
	assert.Nil(t, output)
}

func TestExecute_InsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO leads").
		WillReturnError(sql.ErrConnDone)

	handler := NewHandler(LoadConfig(), leads.NewRepository(db), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), testInput())

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		full  string
		first string
		last  string
	}{
		{"Omar Khalid Al Rashid", "Omar", "Khalid Al Rashid"},
		{"Amira", "Amira", ""},
		{"", "", ""},
		{"  Fatima   Noor  ", "Fatima", "Noor"},
	}

	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			first, last := splitName(tt.full)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}
