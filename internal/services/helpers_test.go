package services

import (
	"testing"

	"github.com/P3chys/fresher-portal/internal/models"
	"github.com/P3chys/fresher-portal/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t)
}

func createTrainer(t *testing.T, db *gorm.DB, email string) models.Trainer {
	t.Helper()
	trainer := models.Trainer{Name: "Trainer " + email, Email: email, Password: "pw"}
	require.NoError(t, db.Create(&trainer).Error)
	return trainer
}

func createBatch(t *testing.T, db *gorm.DB, trainerID uint, name string) models.Batch {
	t.Helper()
	batch := models.Batch{Name: name, TrainerID: trainerID}
	require.NoError(t, db.Create(&batch).Error)
	return batch
}

func createEmployee(t *testing.T, db *gorm.DB, email string, batchID *uint) models.Employee {
	t.Helper()
	employee := models.Employee{Name: "Employee " + email, Email: email, Password: "pw", BatchID: batchID}
	require.NoError(t, db.Create(&employee).Error)
	return employee
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
