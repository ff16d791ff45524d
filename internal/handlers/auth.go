package handlers

import (
	"errors"
	"net/http"

	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/P3chys/fresher-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type TrainerRegisterForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type EmployeeRegisterForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
	DOJ      string `form:"doj"`
}

type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginPage renders a login form, or sends a user already logged in with
// the same role straight to their dashboard.
func LoginPage(sm *session.Manager, role session.Role, view, dashboard string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.IdentityFrom(c).Is(role) {
			c.Redirect(http.StatusFound, dashboard)
			return
		}
		render(c, sm, view, nil)
	}
}

func RegisterTrainer(auth *services.AuthService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form TrainerRegisterForm
		if err := c.ShouldBind(&form); err != nil {
			flashRedirect(c, sm, "/trainer/register", FlashWarning, "Name, email and password are required.")
			return
		}

		_, err := auth.RegisterTrainer(c.Request.Context(), form.Name, form.Email, form.Password)
		if errors.Is(err, services.ErrEmailTaken) {
			flashRedirect(c, sm, "/trainer/register", FlashMessage, "Trainer with this email already exists.")
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}

		flashRedirect(c, sm, "/trainer/login", FlashMessage, "Trainer registered successfully. Please log in.")
	}
}

func LoginTrainer(auth *services.AuthService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		invalid := session.Flash{Category: FlashMessage, Message: "Invalid credentials"}

		var form LoginForm
		if err := c.ShouldBind(&form); err != nil {
			render(c, sm, "login_trainer", nil, invalid)
			return
		}

		trainer, err := auth.LoginTrainer(c.Request.Context(), form.Email, form.Password)
		if errors.Is(err, services.ErrInvalidCredentials) {
			render(c, sm, "login_trainer", nil, invalid)
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}

		if err := sm.Login(c, session.Trainer(trainer.ID)); err != nil {
			internalError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/trainer/dashboard")
	}
}

func RegisterEmployee(auth *services.AuthService, index EmployeeIndex, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form EmployeeRegisterForm
		if err := c.ShouldBind(&form); err != nil {
			flashRedirect(c, sm, "/employee/register", FlashWarning, "Name, email and password are required.")
			return
		}

		employee, err := auth.RegisterEmployee(c.Request.Context(), form.Name, form.Email, form.Password, utils.ParseOptionalDate(form.DOJ))
		if errors.Is(err, services.ErrEmailTaken) {
			flashRedirect(c, sm, "/employee/register", FlashWarning, "An employee with that email already exists.")
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}

		indexEmployee(c, index, employee)
		flashRedirect(c, sm, "/employee/login", FlashSuccess, "Employee registered successfully. Please log in.")
	}
}

func LoginEmployee(auth *services.AuthService, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		invalid := session.Flash{Category: FlashDanger, Message: "Invalid credentials."}

		var form LoginForm
		if err := c.ShouldBind(&form); err != nil {
			render(c, sm, "login_employee", nil, invalid)
			return
		}

		employee, err := auth.LoginEmployee(c.Request.Context(), form.Email, form.Password)
		if errors.Is(err, services.ErrInvalidCredentials) {
			render(c, sm, "login_employee", nil, invalid)
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}

		if err := sm.Login(c, session.Employee(employee.ID)); err != nil {
			internalError(c, err)
			return
		}
		flashRedirect(c, sm, "/employee/dashboard", FlashSuccess, "Logged in as employee.")
	}
}

// Logout clears the whole session for either role.
func Logout(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sm.Clear(c); err != nil {
			internalError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/home")
	}
}
