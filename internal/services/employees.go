package services

import (
	"context"
	"strings"
	"time"

	"github.com/P3chys/fresher-portal/internal/models"
	"gorm.io/gorm"
)

type EmployeeService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewEmployeeService(db *gorm.DB, activity *ActivityService) *EmployeeService {
	return &EmployeeService{db: db, activity: activity}
}

type UpdateEmployeeInput struct {
	Name   string
	Domain *string
	// DOJ replaces the stored date only when non-nil.
	DOJ *time.Time
}

// EmployeeDashboard is the employee's own view of their records.
type EmployeeDashboard struct {
	Employee    models.Employee            `json:"employee"`
	Evaluations []models.Evaluation        `json:"evaluations"`
	Allocations []models.ProjectAllocation `json:"allocations"`
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &employee, nil
}

// AssignToBatch sets the employee's batch and, when domain is non-nil, the
// domain too, in a single update.
func (s *EmployeeService) AssignToBatch(ctx context.Context, trainerID, employeeID, batchID uint, domain *string) (*models.Employee, error) {
	var employee models.Employee

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&employee, employeeID).Error; err != nil {
			return notFound(err)
		}

		var batch models.Batch
		if err := tx.First(&batch, batchID).Error; err != nil {
			return notFound(err)
		}

		updates := map[string]interface{}{"batch_id": batch.ID}
		if domain != nil {
			updates["domain"] = *domain
		}
		if err := tx.Model(&employee).Updates(updates).Error; err != nil {
			return err
		}

		employee.BatchID = &batch.ID
		if domain != nil {
			employee.Domain = domain
		}

		return s.activity.CreateActivity(tx, Actor{Role: "trainer", ID: trainerID}, models.ActivityEmployeeAssigned, &employee.ID, &batch.ID, map[string]interface{}{
			"domain": domain,
		})
	})
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, trainerID, employeeID uint, input UpdateEmployeeInput) (*models.Employee, error) {
	var employee models.Employee

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&employee, employeeID).Error; err != nil {
			return notFound(err)
		}

		updates := map[string]interface{}{
			"name":   input.Name,
			"domain": input.Domain,
		}
		if input.DOJ != nil {
			updates["doj"] = *input.DOJ
		}
		if err := tx.Model(&employee).Updates(updates).Error; err != nil {
			return err
		}

		employee.Name = input.Name
		employee.Domain = input.Domain
		if input.DOJ != nil {
			employee.DOJ = input.DOJ
		}

		return s.activity.CreateActivity(tx, Actor{Role: "trainer", ID: trainerID}, models.ActivityEmployeeUpdated, &employee.ID, employee.BatchID, nil)
	})
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (s *EmployeeService) Dashboard(ctx context.Context, employeeID uint) (*EmployeeDashboard, error) {
	employee, err := s.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	dashboard := &EmployeeDashboard{Employee: *employee}

	if err := db.Where("employee_id = ?", employeeID).Order("id").Find(&dashboard.Evaluations).Error; err != nil {
		return nil, err
	}
	if err := db.Where("employee_id = ?", employeeID).Order("id").Find(&dashboard.Allocations).Error; err != nil {
		return nil, err
	}
	return dashboard, nil
}

// List returns every employee ordered by id.
func (s *EmployeeService) List(ctx context.Context, offset, limit int) ([]models.Employee, error) {
	var employees []models.Employee
	err := s.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&employees).Error
	return employees, err
}

// likeEscaper makes LIKE wildcards in user input match literally, with '!'
// as the escape character on every driver.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search matches employees by name, email or domain substring. It backs
// employee search when no search index is configured.
func (s *EmployeeService) Search(ctx context.Context, query string, limit int) ([]models.Employee, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"

	var employees []models.Employee
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(domain) LIKE ? ESCAPE '!'", pattern, pattern, pattern).
		Order("id").
		Limit(limit).
		Find(&employees).Error
	return employees, err
}
