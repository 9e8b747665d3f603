package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.GET("/classes/:id", api.sheet, lecturerMiddleware())
	ag.POST("/classes/:id", api.enter, lecturerMiddleware())
	ag.GET("/mine", api.mine, studentMiddleware())
	ag.POST("/email-alerts", api.emailAlerts, adminMiddleware())
}

// sheet returns the entry sheet for a class: one line per enrollment.
func (api *attendanceApi) sheet(ctx echo.Context) error {
	entries, err := api.svc.Sheet(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return errors.Wrap(err, "building sheet")
	}
	if entries == nil {
		entries = []roster.ClassEnrollment{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

// enter records one attendance row per enrollment of the class, dated
// today, in a single transaction.
func (api *attendanceApi) enter(ctx echo.Context) error {
	var data attendance.EntryForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EntryForm")
	}

	rows, err := api.svc.Enter(ctx.Request().Context(), intParam(ctx, "id"), data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusCreated, rows)
}

// mine returns all attendance rows of the calling student.
func (api *attendanceApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rows, err := api.svc.HistoryForUser(ctx.Request().Context(), claims.UserID())
	if err != nil {
		if errors.Cause(err) == roster.ErrStudentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying attendance")
	}
	if rows == nil {
		rows = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

// emailAlerts sweeps the ledger and emails every enrollment with at
// least one Absent row.
func (api *attendanceApi) emailAlerts(ctx echo.Context) error {
	sent, err := api.svc.NotifyPoorAttendance(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "sending alerts")
	}
	return ctx.JSON(http.StatusOK, EmailAlertsResponse{Sent: sent})
}

type EmailAlertsResponse struct {
	Sent int `json:"sent"`
}
