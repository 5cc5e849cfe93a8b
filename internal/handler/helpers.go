package handler

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"stockportal/internal/apierror"
	"stockportal/internal/infra"
	"stockportal/internal/middleware"
	"stockportal/internal/model"
	"stockportal/internal/notify"
	"stockportal/internal/service"
	"stockportal/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

var contactNumberRe = regexp.MustCompile(`^[0-9+\-]+$`)

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0 and required work on prices.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report fields by their JSON name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	mustRegister("category", func(fl validator.FieldLevel) bool {
		return model.IsCategory(fl.Field().String())
	})
	mustRegister("contactnumber", func(fl validator.FieldLevel) bool {
		return contactNumberRe.MatchString(fl.Field().String())
	})
	mustRegister("sortorder", func(fl validator.FieldLevel) bool {
		return view.IsSortOrder(fl.Field().String())
	})
	mustRegister("price2dp", func(fl validator.FieldLevel) bool {
		var d decimal.Decimal
		switch v := fl.Field().Interface().(type) {
		case decimal.Decimal:
			d = v
		case float64:
			d = decimal.NewFromFloat(v)
		default:
			return false
		}
		return d.Equal(d.Round(2))
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// On failure it writes the response and returns false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return 0, false
	}
	return id, true
}

// ── Upstream error mapping ───────────────────────────────────────────────────

// upstreamStatus maps an inventory API error onto the status the portal
// answers with.
func upstreamStatus(err error) int {
	var se *infra.StatusError
	switch {
	case errors.Is(err, infra.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, infra.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, infra.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &se):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// outcomeError is the failure body of a mutation: the error envelope plus the
// notification that was emitted.
type outcomeError struct {
	apierror.APIError
	Notification notify.Notification `json:"notification"`
}

// sessionGate drops the caller's session when the inventory API rejects the
// portal's credential.
type sessionGate struct {
	sessions service.SessionService
}

// unauthorized invalidates the current session and answers 401 with a
// redirect to the login page.
func (g sessionGate) unauthorized(c *gin.Context, n *notify.Notification) {
	if claims := middleware.GetClaims(c); claims != nil && g.sessions != nil {
		if err := g.sessions.Logout(c.Request.Context(), claims.SessionID); err != nil {
			log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("could not invalidate session")
		}
	}
	body := apierror.NewRedirect("Upstream rejected the portal credentials", middleware.LoginPath)
	if n != nil {
		c.JSON(http.StatusUnauthorized, outcomeError{APIError: *body, Notification: *n})
		return
	}
	c.JSON(http.StatusUnauthorized, body)
}

// respondOutcome writes a mutation result.
func (g sessionGate) respondOutcome(c *gin.Context, out *service.Outcome, err error, okStatus int) {
	if err != nil {
		status := upstreamStatus(err)
		if status == http.StatusUnauthorized {
			g.unauthorized(c, &out.Notification)
			return
		}
		c.JSON(status, outcomeError{
			APIError:     apierror.APIError{Detail: out.Notification.Message},
			Notification: out.Notification,
		})
		return
	}
	if errors.Is(out.RefreshErr, infra.ErrUnauthorized) {
		g.unauthorized(c, &out.Notification)
		return
	}
	c.JSON(okStatus, out)
}
