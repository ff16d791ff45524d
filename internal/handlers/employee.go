package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/P3chys/fresher-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

const feedbackInvalid = "Please answer every rating question with a number."

var (
	trainerQuestions    = []string{"trainer_q1", "trainer_q2", "trainer_q3", "trainer_q4", "trainer_q5"}
	curriculumQuestions = []string{"curriculum_q1", "curriculum_q2", "curriculum_q3", "curriculum_q4", "curriculum_q5"}
)

func EmployeeDashboard(employees *services.EmployeeService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		dashboard, err := employees.Dashboard(c.Request.Context(), session.IdentityFrom(c).ID)
		if err != nil {
			serviceError(c, err, "Employee not found")
			return
		}

		render(c, sm, "employee_dashboard", gin.H{
			"employee":    dashboard.Employee,
			"evaluations": dashboard.Evaluations,
			"allocations": dashboard.Allocations,
		})
	}
}

func FeedbackPage(employees *services.EmployeeService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, err := employees.Get(c.Request.Context(), session.IdentityFrom(c).ID)
		if err != nil {
			serviceError(c, err, "Employee not found")
			return
		}
		render(c, sm, "feedback", gin.H{"employee": employee})
	}
}

// parseRatings reads required integer ratings from the posted form.
func parseRatings(c *gin.Context, fields []string) ([5]int, bool) {
	var ratings [5]int
	for i, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(c.PostForm(field)))
		if err != nil {
			return ratings, false
		}
		ratings[i] = v
	}
	return ratings, true
}

func SubmitFeedback(feedback *services.FeedbackService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		trainerRatings, ok := parseRatings(c, trainerQuestions)
		if !ok {
			flashRedirect(c, sm, "/employee/feedback", FlashDanger, feedbackInvalid)
			return
		}
		curriculumRatings, ok := parseRatings(c, curriculumQuestions)
		if !ok {
			flashRedirect(c, sm, "/employee/feedback", FlashDanger, feedbackInvalid)
			return
		}

		var overall *int
		if raw := strings.TrimSpace(c.PostForm("overall_rating")); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				flashRedirect(c, sm, "/employee/feedback", FlashDanger, feedbackInvalid)
				return
			}
			overall = &v
		}

		_, err := feedback.Submit(c.Request.Context(), session.IdentityFrom(c).ID, services.FeedbackInput{
			TrainerRatings:    trainerRatings,
			CurriculumRatings: curriculumRatings,
			Comments:          utils.OptionalString(c.PostForm("comments")),
			OverallRating:     overall,
		})
		if err != nil {
			serviceError(c, err, "Employee not found")
			return
		}

		c.Redirect(http.StatusFound, "/thank-you")
	}
}
