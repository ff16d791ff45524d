package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/P3chys/fresher-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type AddBatchForm struct {
	Name      string `form:"name" binding:"required"`
	Domain    string `form:"domain"`
	StartDate string `form:"start_date"`
}

type AssignEmployeeForm struct {
	EmployeeID string `form:"employee_id"`
	BatchID    string `form:"batch_id"`
	Domain     string `form:"domain"`
}

type EditEmployeeForm struct {
	Name   string `form:"name" binding:"required"`
	Domain string `form:"domain"`
	DOJ    string `form:"doj"`
}

type EvaluationForm struct {
	BatchID     string `form:"batch_id"`
	M1Marks     string `form:"m1_marks"`
	SprintMarks string `form:"sprint_marks"`
	L1Marks     string `form:"l1_marks"`
}

type AllocationForm struct {
	InterviewDate string `form:"interview_date"`
	ProjectDomain string `form:"project_domain"`
}

func TrainerDashboard(auth *services.AuthService, batches *services.BatchService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := session.IdentityFrom(c)

		trainer, err := auth.GetTrainer(c.Request.Context(), identity.ID)
		if err != nil {
			serviceError(c, err, "Trainer not found")
			return
		}

		list, err := batches.ListForTrainer(c.Request.Context(), identity.ID)
		if err != nil {
			internalError(c, err)
			return
		}

		render(c, sm, "trainer_dashboard", gin.H{
			"trainer": trainer,
			"batches": list,
		})
	}
}

func AddBatch(batches *services.BatchService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form AddBatchForm
		if err := c.ShouldBind(&form); err != nil || strings.TrimSpace(form.Name) == "" {
			flashRedirect(c, sm, "/trainer/dashboard", FlashWarning, "Batch name is required.")
			return
		}

		_, err := batches.Create(c.Request.Context(), session.IdentityFrom(c).ID, services.CreateBatchInput{
			Name:      strings.TrimSpace(form.Name),
			Domain:    utils.OptionalString(form.Domain),
			StartDate: utils.ParseOptionalDate(form.StartDate),
		})
		if err != nil {
			internalError(c, err)
			return
		}

		c.Redirect(http.StatusFound, "/trainer/dashboard")
	}
}

func BatchDetail(batches *services.BatchService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "Batch not found")
		if !ok {
			return
		}

		detail, err := batches.Detail(c.Request.Context(), id)
		if err != nil {
			serviceError(c, err, "Batch not found")
			return
		}

		render(c, sm, "batch_detail", gin.H{
			"batch":         detail.Batch,
			"employees":     detail.Employees,
			"all_employees": detail.AllEmployees,
			"evaluations":   detail.Evaluations,
		})
	}
}

func AssignEmployeeToBatch(employees *services.EmployeeService, index EmployeeIndex, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form AssignEmployeeForm
		_ = c.ShouldBind(&form)

		employeeID, errEmployee := strconv.ParseUint(strings.TrimSpace(form.EmployeeID), 10, 64)
		batchID, errBatch := strconv.ParseUint(strings.TrimSpace(form.BatchID), 10, 64)
		if errEmployee != nil || errBatch != nil {
			flashRedirect(c, sm, "/trainer/dashboard", FlashDanger, "Invalid input.")
			return
		}

		employee, err := employees.AssignToBatch(c.Request.Context(), session.IdentityFrom(c).ID, uint(employeeID), uint(batchID), utils.OptionalString(form.Domain))
		if err != nil {
			serviceError(c, err, "Employee or batch not found")
			return
		}

		indexEmployee(c, index, employee)
		flashRedirect(c, sm, batchLocation(uint(batchID)), FlashSuccess, "Employee assigned to batch and domain set.")
	}
}

func EditEmployeePage(employees *services.EmployeeService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "Employee not found")
		if !ok {
			return
		}

		employee, err := employees.Get(c.Request.Context(), id)
		if err != nil {
			serviceError(c, err, "Employee not found")
			return
		}

		render(c, sm, "edit_employee", gin.H{"employee": employee})
	}
}

func EditEmployee(employees *services.EmployeeService, index EmployeeIndex, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "Employee not found")
		if !ok {
			return
		}

		var form EditEmployeeForm
		if err := c.ShouldBind(&form); err != nil || strings.TrimSpace(form.Name) == "" {
			if _, err := employees.Get(c.Request.Context(), id); err != nil {
				serviceError(c, err, "Employee not found")
				return
			}
			flashRedirect(c, sm, "/trainer/edit_employee/"+c.Param("id"), FlashWarning, "Name is required.")
			return
		}

		employee, err := employees.Update(c.Request.Context(), session.IdentityFrom(c).ID, id, services.UpdateEmployeeInput{
			Name:   strings.TrimSpace(form.Name),
			Domain: utils.OptionalString(form.Domain),
			DOJ:    utils.ParseOptionalDate(form.DOJ),
		})
		if err != nil {
			serviceError(c, err, "Employee not found")
			return
		}

		indexEmployee(c, index, employee)
		flashRedirect(c, sm, employeeBatchLocation(employee.BatchID), FlashMessage, "Employee information updated.")
	}
}

// parseMark reads an optional mark. Blank counts as zero.
func parseMark(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func EditEvaluation(evaluations *services.EvaluationService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID, ok := pathID(c, "id", "Employee not found")
		if !ok {
			return
		}

		var form EvaluationForm
		_ = c.ShouldBind(&form)

		batchID, err := strconv.ParseUint(strings.TrimSpace(form.BatchID), 10, 64)
		if err != nil {
			flashRedirect(c, sm, "/trainer/dashboard", FlashDanger, "Invalid input.")
			return
		}

		var marks services.Marks
		var errs [3]error
		marks.M1, errs[0] = parseMark(form.M1Marks)
		marks.Sprint, errs[1] = parseMark(form.SprintMarks)
		marks.L1, errs[2] = parseMark(form.L1Marks)
		if errors.Join(errs[:]...) != nil {
			flashRedirect(c, sm, batchLocation(uint(batchID)), FlashDanger, "Marks must be whole numbers.")
			return
		}

		_, err = evaluations.Record(c.Request.Context(), session.IdentityFrom(c).ID, employeeID, uint(batchID), marks)
		if err != nil {
			serviceError(c, err, "Employee or batch not found")
			return
		}

		flashRedirect(c, sm, batchLocation(uint(batchID)), FlashMessage, "Evaluation updated.")
	}
}

func AllocateProject(employees *services.EmployeeService, allocations *services.AllocationService, notifier InterviewNotifier, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID, ok := pathID(c, "id", "Employee not found")
		if !ok {
			return
		}

		employee, err := employees.Get(c.Request.Context(), employeeID)
		if err != nil {
			serviceError(c, err, "Employee not found")
			return
		}

		var form AllocationForm
		_ = c.ShouldBind(&form)

		allocation, err := allocations.Allocate(c.Request.Context(), session.IdentityFrom(c).ID, employeeID, services.AllocationInput{
			InterviewDate: utils.ParseOptionalDate(form.InterviewDate),
			ProjectDomain: utils.OptionalString(form.ProjectDomain),
		})
		if errors.Is(err, services.ErrNotEligible) {
			flashRedirect(c, sm, employeeBatchLocation(employee.BatchID), FlashWarning, "Employee must have passed evaluations before project allocation.")
			return
		}
		if err != nil {
			serviceError(c, err, "Employee not found")
			return
		}

		if notifier != nil {
			if err := notifier.SendInterviewScheduled(*employee, *allocation); err != nil {
				_ = c.Error(err)
			}
		}

		flashRedirect(c, sm, employeeBatchLocation(employee.BatchID), FlashSuccess, "Project allocation and interview scheduled.")
	}
}
