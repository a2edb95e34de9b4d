package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/identity"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "personToken",
		Claims:        new(Claims),
	}
	jwtConf *core.Config
)

func initJWTConfig(conf *core.Config) {
	jwtConf = conf
	appJWTConfig.SigningKey = []byte(conf.SecretKey)
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsTeacher bool   `json:"is_teacher,omitempty"` // -> TEACHER PORTAL
}

func GetStudentClaims(std identity.Student) *Claims {
	return newClaims(std.ID, std.Email, std.FirstName, std.LastName, false)
}

func GetTeacherClaims(tch identity.Teacher) *Claims {
	return newClaims(tch.ID, tch.Email, tch.FirstName, tch.LastName, true)
}

func newClaims(id, email, firstName, lastName string, isTeacher bool) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    jwtConf.AppName,
			Subject:   id,
			ExpiresAt: now.Add(jwtConf.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		IsTeacher: isTeacher,
	}
}

func authenticateStudent(email, pwd string, svc identity.Service, ctx echo.Context) (identity.Student, *Claims, error) {
	std, err := svc.GetStudentByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Cause(err) == identity.ErrNotFound {
			return identity.Student{}, nil, errAuthenticationFailed
		}
		return identity.Student{}, nil, errors.Wrap(err, "finding student by email")
	}
	if err = std.CheckPassword(pwd); err != nil {
		return identity.Student{}, nil, errAuthenticationFailed
	}
	return std, GetStudentClaims(std), nil
}

func authenticateTeacher(email, pwd string, svc identity.Service, ctx echo.Context) (identity.Teacher, *Claims, error) {
	tch, err := svc.GetTeacherByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Cause(err) == identity.ErrNotFound {
			return identity.Teacher{}, nil, errAuthenticationFailed
		}
		return identity.Teacher{}, nil, errors.Wrap(err, "finding teacher by email")
	}
	if err = tch.CheckPassword(pwd); err != nil {
		return identity.Teacher{}, nil, errAuthenticationFailed
	}
	return tch, GetTeacherClaims(tch), nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
