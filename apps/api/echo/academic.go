package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/academic"
)

type academicApi struct {
	svc *academic.Service
}

func registerAcademicAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *academic.Service) {
	api := academicApi{svc: svc}

	sg := g.Group("/semesters", jwt, adminMiddleware())
	sg.POST("", api.createSemester)
	sg.GET("", api.querySemesters)
	sg.GET("/:id", api.retrieveSemester)
	sg.PUT("/:id", api.updateSemester)
	sg.DELETE("/:id", api.destroySemester)

	cg := g.Group("/courses", jwt, adminMiddleware())
	cg.POST("", api.createCourse)
	cg.GET("", api.queryCourses)
	cg.GET("/:id", api.retrieveCourse)
	cg.PUT("/:id", api.updateCourse)
	cg.DELETE("/:id", api.destroyCourse)

	kg := g.Group("/classes", jwt, adminMiddleware())
	kg.POST("", api.createClass)
	kg.GET("", api.queryClasses)
	kg.GET("/:id", api.retrieveClass)
	kg.PUT("/:id", api.updateClass)
	kg.PUT("/:id/lecturer", api.assignLecturer)
	kg.DELETE("/:id", api.destroyClass)

	dg := g.Group("/college-days", jwt, adminMiddleware())
	dg.POST("", api.createCollegeDay)
	dg.GET("", api.queryCollegeDays)
	dg.GET("/:id", api.retrieveCollegeDay)
	dg.PUT("/:id", api.updateCollegeDay)
	dg.DELETE("/:id", api.destroyCollegeDay)
}

// trapNotFound maps the academic not-found errors to a 404 response.
func trapNotFound(err error) error {
	switch errors.Cause(err) {
	case academic.ErrSemesterNotFound, academic.ErrCourseNotFound,
		academic.ErrClassNotFound, academic.ErrCollegeDayNotFound:
		return errHttpNotFound
	}
	return err
}

// Semesters

func (api *academicApi) createSemester(ctx echo.Context) error {
	var data academic.NewSemester
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSemester")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sem, err := api.svc.CreateSemester(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating semester")
	}
	return ctx.JSON(http.StatusCreated, sem)
}

func (api *academicApi) querySemesters(ctx echo.Context) error {
	sems, err := api.svc.QuerySemesters(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying semesters")
	}
	return ctx.JSON(http.StatusOK, sems)
}

func (api *academicApi) retrieveSemester(ctx echo.Context) error {
	sem, err := api.svc.GetSemesterByID(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, sem)
}

func (api *academicApi) updateSemester(ctx echo.Context) error {
	var data academic.NewSemester
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSemester")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sem, err := api.svc.UpdateSemester(ctx.Request().Context(), intParam(ctx, "id"), data)
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, sem)
}

func (api *academicApi) destroySemester(ctx echo.Context) error {
	if _, err := api.svc.GetSemesterByID(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return trapNotFound(err)
	}
	if err := api.svc.DeleteSemesters(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting semester")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Courses

func (api *academicApi) createCourse(ctx echo.Context) error {
	var data academic.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *academicApi) queryCourses(ctx echo.Context) error {
	crss, err := api.svc.QueryCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, crss)
}

func (api *academicApi) retrieveCourse(ctx echo.Context) error {
	crs, err := api.svc.GetCourseByID(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *academicApi) updateCourse(ctx echo.Context) error {
	var data academic.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.UpdateCourse(ctx.Request().Context(), intParam(ctx, "id"), data)
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *academicApi) destroyCourse(ctx echo.Context) error {
	if _, err := api.svc.GetCourseByID(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return trapNotFound(err)
	}
	if err := api.svc.DeleteCourses(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Classes

func (api *academicApi) createClass(ctx echo.Context) error {
	var data academic.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cls, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *academicApi) queryClasses(ctx echo.Context) error {
	clss, err := api.svc.QueryClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, clss)
}

func (api *academicApi) retrieveClass(ctx echo.Context) error {
	cls, err := api.svc.GetClassByID(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *academicApi) updateClass(ctx echo.Context) error {
	var data academic.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cls, err := api.svc.UpdateClass(ctx.Request().Context(), intParam(ctx, "id"), data)
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *academicApi) assignLecturer(ctx echo.Context) error {
	var data academic.AssignLecturer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignLecturer")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cls, err := api.svc.AssignLecturer(ctx.Request().Context(), intParam(ctx, "id"), data)
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *academicApi) destroyClass(ctx echo.Context) error {
	if _, err := api.svc.GetClassByID(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return trapNotFound(err)
	}
	if err := api.svc.DeleteClasses(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// College days

func (api *academicApi) createCollegeDay(ctx echo.Context) error {
	var data academic.NewCollegeDay
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCollegeDay")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	day, err := api.svc.CreateCollegeDay(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating college day")
	}
	return ctx.JSON(http.StatusCreated, day)
}

func (api *academicApi) queryCollegeDays(ctx echo.Context) error {
	days, err := api.svc.QueryCollegeDays(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying college days")
	}
	return ctx.JSON(http.StatusOK, days)
}

func (api *academicApi) retrieveCollegeDay(ctx echo.Context) error {
	day, err := api.svc.GetCollegeDayByID(ctx.Request().Context(), intParam(ctx, "id"))
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, day)
}

func (api *academicApi) updateCollegeDay(ctx echo.Context) error {
	var data academic.NewCollegeDay
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCollegeDay")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	day, err := api.svc.UpdateCollegeDay(ctx.Request().Context(), intParam(ctx, "id"), data)
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, day)
}

func (api *academicApi) destroyCollegeDay(ctx echo.Context) error {
	if _, err := api.svc.GetCollegeDayByID(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return trapNotFound(err)
	}
	if err := api.svc.DeleteCollegeDays(ctx.Request().Context(), intParam(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting college day")
	}
	return ctx.NoContent(http.StatusNoContent)
}
