package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/identity"
)

type courseApi struct {
	svc      course.Service
	validate *validator.Validate
}

func registerCourseAPI(e *echo.Echo, svc course.Service, validate *validator.Validate) {
	api := courseApi{svc: svc, validate: validate}

	e.POST("/course", api.create)
	e.GET("/course/:id", api.retrieve)
	e.GET("/fetchCourse/teacher/:id", api.queryByTeacher)
	e.GET("/fetchCourse/student/:id", api.queryByStudent)
	e.POST("/checkCourse", api.checkCode)
	e.POST("/course/changeName/:id", api.rename)
	e.DELETE("/course/:id", api.destroy)

	e.POST("/enrollStudent", api.enroll)
	e.GET("/studentCount/:id", api.countEnrolled)
	e.GET("/course/students/:id", api.queryStudents)
	e.GET("/search/:id/:fname/:lname", api.searchStudents)
	e.POST("/removeStudent", api.unenroll)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, ok(crs))
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, ok(crs))
}

func (api *courseApi) queryByTeacher(ctx echo.Context) error {
	courses, err := api.svc.QueryByTeacher(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying courses by teacher")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, ok(courses))
}

func (api *courseApi) queryByStudent(ctx echo.Context) error {
	courses, err := api.svc.QueryByStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying courses by student")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, ok(courses))
}

func (api *courseApi) checkCode(ctx echo.Context) error {
	var data CheckCourseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CheckCourseRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, found, err := api.svc.LookupByCode(ctx.Request().Context(), data.Code)
	if err != nil {
		return errors.Wrap(err, "looking up course by code")
	}
	if !found {
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: false, Data: "Invalid course code"})
	}
	return ctx.JSON(http.StatusOK, ok(crs))
}

func (api *courseApi) rename(ctx echo.Context) error {
	var data course.RenameCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RenameCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.Rename(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "renaming course")
	}
	return ctx.JSON(http.StatusOK, ok(crs))
}

func (api *courseApi) destroy(ctx echo.Context) error {
	crs, found, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if !found {
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: false})
	}
	return ctx.JSON(http.StatusOK, ok(crs))
}

func (api *courseApi) enroll(ctx echo.Context) error {
	var data course.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Enroll(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, ok(rec))
}

func (api *courseApi) countEnrolled(ctx echo.Context) error {
	count, err := api.svc.CountEnrolled(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "counting enrolled students")
	}
	return ctx.JSON(http.StatusOK, ok(CountData{Count: count}))
}

func (api *courseApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying enrolled students")
	}
	if students == nil {
		students = []identity.Student{}
	}
	return ctx.JSON(http.StatusOK, ok(students))
}

func (api *courseApi) searchStudents(ctx echo.Context) error {
	students, err := api.svc.FindStudentsByName(
		ctx.Request().Context(), ctx.Param("id"), ctx.Param("fname"), ctx.Param("lname"))
	if err != nil {
		return errors.Wrap(err, "searching enrolled students")
	}
	if students == nil {
		students = []identity.Student{}
	}
	return ctx.JSON(http.StatusOK, ok(students))
}

func (api *courseApi) unenroll(ctx echo.Context) error {
	var data UnenrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UnenrollRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, found, err := api.svc.Unenroll(ctx.Request().Context(), data.CourseID, data.StudentID)
	if err != nil {
		return errors.Wrap(err, "unenrolling student")
	}
	if !found {
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: false})
	}
	return ctx.JSON(http.StatusOK, ok(rec))
}

type (
	CheckCourseRequest struct {
		Code string `json:"course_code" validate:"required"`
	}

	UnenrollRequest struct {
		CourseID  string `json:"course_id" validate:"required"`
		StudentID string `json:"student_id" validate:"required"`
	}
)

func (cr *CheckCourseRequest) Validate(validate *validator.Validate) error {
	cr.Code = core.CleanString(cr.Code)
	return validate.Struct(cr)
}

func (ur *UnenrollRequest) Validate(validate *validator.Validate) error {
	ur.CourseID = core.CleanString(ur.CourseID)
	ur.StudentID = core.CleanString(ur.StudentID)
	return validate.Struct(ur)
}
