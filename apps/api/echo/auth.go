package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/auth"
	"github.com/doctorprep/backend/core/student"
)

const (
	claimsContextKey  = "authToken"
	studentContextKey = "student"
	adminSubject      = "admin"
)

// newJWTConfig returns the JWT auth middleware config.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    claimsContextKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Plan         string `json:"plan,omitempty"`
	IsStudent    bool   `json:"is_student,omitempty"` // -> STUDENT PORTAL
	IsAdmin      bool   `json:"is_admin,omitempty"`   // -> ADMIN PORTAL
	Role         string `json:"role,omitempty"`
}

// StudentID parses the subject as a student id; fails for admin tokens.
func (c Claims) StudentID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return 0, errors.Wrap(err, "parsing subject")
	}
	return id, nil
}

// GetAuthClaims builds the Claims for an authenticated identity.
func GetAuthClaims(conf *core.Config, res auth.Result, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   adminSubject,
			Audience:  "DoctorPrep",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Role:         res.Role,
		IsAdmin:      res.Role == auth.RoleAdmin,
		IsStudent:    res.Role == auth.RoleStudent,
	}
	if res.Student != nil {
		claims.Subject = strconv.Itoa(res.Student.ID)
		claims.Name = res.Student.Name
		claims.Email = res.Student.Email
		claims.Plan = res.Student.Plan
	}
	return claims
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(claimsContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextStudent(ctx echo.Context, svc student.Service, clms ...Claims) (student.Student, error) {
	if std, ok := ctx.Get(studentContextKey).(student.Student); ok {
		return std, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return student.Student{}, errors.Wrap(err, "getting context claims")
		}
	}

	id, err := claims.StudentID()
	if err != nil {
		return student.Student{}, errUnauthorized
	}
	std, err := svc.GetByID(id)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	ctx.Set(studentContextKey, std)
	return std, nil
}

func refreshToken(ctx echo.Context, conf *core.Config, svc student.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	res := auth.Result{Role: claims.Role}
	if claims.IsStudent {
		std, err := getContextStudent(ctx, svc, claims)
		if err != nil {
			return "", errors.Wrap(err, "getting context student")
		}
		// check if student is still active
		if !std.IsActive() {
			return "", errAccountDeactivated
		}
		res.Student = &std
	}

	newClaims := GetAuthClaims(conf, res, claims.OrigIssuedAt)
	token, err := GenerateToken(conf, newClaims)
	return token, errors.Wrap(err, "generating token")
}
