package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/roster"
)

type rosterApi struct {
	svc *roster.Service
}

func registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *roster.Service) {
	api := rosterApi{svc: svc}

	lg := g.Group("/lecturers", jwt, adminMiddleware())
	lg.POST("", api.createLecturer)
	lg.GET("", api.queryLecturers)
	lg.GET("/:id", api.retrieveLecturer)
	lg.PUT("/:id", api.updateLecturer)
	lg.DELETE("/:id", api.destroyLecturer)

	sg := g.Group("/students", jwt, adminMiddleware())
	sg.POST("", api.createStudent)
	sg.POST("/upload", api.uploadStudents)
	sg.GET("", api.queryStudents)
	sg.GET("/:id", api.retrieveStudent)
	sg.PUT("/:id", api.updateStudent)
	sg.DELETE("/:id", api.destroyStudent)

	eg := g.Group("/enrollments", jwt, adminMiddleware())
	eg.POST("", api.createEnrollment)
	eg.GET("", api.queryEnrollments)
	eg.GET("/:id", api.retrieveEnrollment)
	eg.PUT("/:id", api.updateEnrollment)
	eg.DELETE("/:id", api.destroyEnrollment)
}

// trapRosterNotFound maps the roster not-found errors to a 404 response.
func trapRosterNotFound(err error) error {
	switch errors.Cause(err) {
	case roster.ErrLecturerNotFound, roster.ErrStudentNotFound, roster.ErrEnrollmentNotFound:
		return errHttpNotFound
	}
	return err
}

// Lecturers

func (api *rosterApi) createLecturer(ctx echo.Context) error {
	var data roster.NewLecturer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLecturer")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	lect, err := api.svc.CreateLecturer(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lecturer")
	}
	return ctx.JSON(http.StatusCreated, lect)
}

func (api *rosterApi) queryLecturers(ctx echo.Context) error {
	lects, err := api.svc.QueryLecturers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying lecturers")
	}
	return ctx.JSON(http.StatusOK, lects)
}

func (api *rosterApi) retrieveLecturer(ctx echo.Context) error {
	lect, err := api.svc.GetLecturerByID(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return trapRosterNotFound(err)
	}
	return ctx.JSON(http.StatusOK, lect)
}

func (api *rosterApi) updateLecturer(ctx echo.Context) error {
	lect, err := api.svc.GetLecturerByID(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return trapRosterNotFound(err)
	}

	var data roster.NewLecturer
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLecturer")
	}
	if err = data.Validate(ctx.Request().Context(), api.svc, lect); err != nil {
		return err
	}

	lect, err = api.svc.UpdateLecturer(ctx.Request().Context(), lect.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating lecturer")
	}
	return ctx.JSON(http.StatusOK, lect)
}

// destroyLecturer removes the lecturer's account; the profile and its
// classes follow through the cascade.
func (api *rosterApi) destroyLecturer(ctx echo.Context) error {
	if err := api.svc.DeleteLecturer(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return trapRosterNotFound(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Students

func (api *rosterApi) createStudent(ctx echo.Context) error {
	var data roster.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	st, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *rosterApi) uploadStudents(ctx echo.Context) error {
	fileHdr, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a csv file upload is required")
	}
	f, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer func() { _ = f.Close() }()

	report, err := api.svc.BulkCreateStudents(ctx.Request().Context(), f)
	if err != nil {
		if errors.Cause(err) == roster.ErrMissingColumns {
			return echo.NewHTTPError(http.StatusBadRequest, roster.ErrMissingColumns.Error())
		}
		return errors.Wrap(err, "bulk creating students")
	}
	return ctx.JSON(http.StatusCreated, report)
}

func (api *rosterApi) queryStudents(ctx echo.Context) error {
	sts, err := api.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, sts)
}

func (api *rosterApi) retrieveStudent(ctx echo.Context) error {
	st, err := api.svc.GetStudentByID(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return trapRosterNotFound(err)
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *rosterApi) updateStudent(ctx echo.Context) error {
	st, err := api.svc.GetStudentByID(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return trapRosterNotFound(err)
	}

	var data roster.NewStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err = data.Validate(ctx.Request().Context(), api.svc, st); err != nil {
		return err
	}

	st, err = api.svc.UpdateStudent(ctx.Request().Context(), st.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

// destroyStudent removes the student's account; the profile, its
// enrollments and attendance rows follow through the cascade.
func (api *rosterApi) destroyStudent(ctx echo.Context) error {
	if err := api.svc.DeleteStudent(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return trapRosterNotFound(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Enrollments

func (api *rosterApi) createEnrollment(ctx echo.Context) error {
	var data roster.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	enr, err := api.svc.CreateEnrollment(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating enrollment")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *rosterApi) queryEnrollments(ctx echo.Context) error {
	enrs, err := api.svc.QueryEnrollments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *rosterApi) retrieveEnrollment(ctx echo.Context) error {
	enr, err := api.svc.GetEnrollmentByID(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return trapRosterNotFound(err)
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *rosterApi) updateEnrollment(ctx echo.Context) error {
	var data roster.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	enr, err := api.svc.UpdateEnrollment(ctx.Request().Context(), intParam(ctx, "id"), data)
	if err != nil {
		return trapRosterNotFound(err)
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *rosterApi) destroyEnrollment(ctx echo.Context) error {
	if _, err := api.svc.GetEnrollmentByID(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return trapRosterNotFound(err)
	}
	if err := api.svc.DeleteEnrollments(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
