package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/identity"
)

type identityApi struct {
	svc      identity.Service
	validate *validator.Validate
}

func registerIdentityAPI(e *echo.Echo, jwt echo.MiddlewareFunc, svc identity.Service, validate *validator.Validate) {
	api := identityApi{svc: svc, validate: validate}

	e.POST("/students", api.studentRegister)
	e.POST("/students/login", api.studentLogin)
	e.GET("/students", api.studentQueryAll)
	e.GET("/student/:id", api.studentRetrieve)
	e.POST("/update/student", api.studentUpdate)

	e.POST("/teachers", api.teacherRegister)
	e.POST("/teachers/login", api.teacherLogin)

	e.GET("/profile", api.profile, jwt)
}

// Handlers

func (api *identityApi) studentRegister(ctx echo.Context) error {
	var data identity.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.RegisterStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, ok(std))
}

func (api *identityApi) studentLogin(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, claims, err := authenticateStudent(data.Email, data.Password, api.svc, ctx)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Success: true, Data: std, Token: token})
}

func (api *identityApi) studentQueryAll(ctx echo.Context) error {
	students, err := api.svc.QueryAllStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []identity.Student{}
	}
	return ctx.JSON(http.StatusOK, ok(students))
}

func (api *identityApi) studentRetrieve(ctx echo.Context) error {
	std, err := api.svc.GetStudentByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, ok(std))
}

func (api *identityApi) studentUpdate(ctx echo.Context) error {
	var data identity.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.UpdateStudentNames(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, ok(std))
}

func (api *identityApi) teacherRegister(ctx echo.Context) error {
	var data identity.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tch, err := api.svc.RegisterTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering teacher")
	}
	return ctx.JSON(http.StatusCreated, ok(tch))
}

func (api *identityApi) teacherLogin(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tch, claims, err := authenticateTeacher(data.Email, data.Password, api.svc, ctx)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Success: true, Data: tch, Token: token})
}

func (api *identityApi) profile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if claims.IsTeacher {
		tch, err := api.svc.GetTeacherByID(reqCtx, claims.Subject)
		if err != nil {
			return errors.Wrap(err, "finding teacher by ID")
		}
		return ctx.JSON(http.StatusOK, ok(tch))
	}
	std, err := api.svc.GetStudentByID(reqCtx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, ok(std))
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
