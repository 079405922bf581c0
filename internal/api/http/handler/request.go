package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/model"
)

const maxBodyBytes = 1 << 20

// dateLayouts are the accepted ISO 8601 forms of date_of_birth.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

var passwordRules = []validation.Rule{
	validation.Required,
	validation.Length(6, 50),
	validation.By(strongPassword),
}

// decodeJSON decodes the body into v and validates it when v knows how.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return model.WrapError(model.KindInvalidArgument, "request body must be valid JSON", err)
	}
	if vv, ok := v.(validation.Validatable); ok {
		if err := vv.Validate(); err != nil {
			return invalid(err)
		}
	}
	return nil
}

func invalid(err error) error {
	return model.WrapError(model.KindInvalidArgument, err.Error(), err)
}

func strongPassword(value interface{}) error {
	s, _ := value.(string)
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return errors.New("must contain a lowercase letter, an uppercase letter, a digit and a symbol")
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("must be an ISO 8601 date")
}

func isoDate(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if s == "" {
		return nil
	}
	_, err := parseDate(s)
	return err
}

func matches(other string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != other {
			return errors.New("passwords do not match")
		}
		return nil
	}
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
	DateOfBirth     string `json:"date_of_birth"`
}

func (r *registerRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, passwordRules...),
		validation.Field(&r.ConfirmPassword, validation.Required, validation.By(matches(r.Password))),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.DateOfBirth, validation.Required, validation.By(isoDate)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type emailVerifyRequest struct {
	EmailVerifyToken string `json:"email_verify_token"`
}

func (r *emailVerifyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EmailVerifyToken, validation.Required),
	)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *forgotPasswordRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type forgotPasswordTokenRequest struct {
	ForgotPasswordToken string `json:"forgot_password_token"`
}

func (r *forgotPasswordTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ForgotPasswordToken, validation.Required),
	)
}

type resetPasswordRequest struct {
	ForgotPasswordToken string `json:"forgot_password_token"`
	Password            string `json:"password"`
	ConfirmPassword     string `json:"confirm_password"`
}

func (r *resetPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ForgotPasswordToken, validation.Required),
		validation.Field(&r.Password, passwordRules...),
		validation.Field(&r.ConfirmPassword, validation.Required, validation.By(matches(r.Password))),
	)
}

type updateMeRequest struct {
	Name        *string `json:"name"`
	Bio         *string `json:"bio"`
	DateOfBirth *string `json:"date_of_birth"`
}

func (r *updateMeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Bio, validation.Length(0, 200)),
		validation.Field(&r.DateOfBirth, validation.NilOrNotEmpty, validation.By(isoDate)),
	)
}

func (r *updateMeRequest) toUpdate() model.ProfileUpdate {
	update := model.ProfileUpdate{Name: r.Name, Bio: r.Bio}
	if r.DateOfBirth != nil {
		// Validate has already parsed it once.
		if dob, err := parseDate(*r.DateOfBirth); err == nil {
			update.DateOfBirth = &dob
		}
	}
	return update
}

type userIDRequest struct {
	UserID string `json:"user_id"`
}

func (r *userIDRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, is.UUID),
	)
}

type createPostRequest struct {
	Audience string  `json:"audience"`
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

func (r *createPostRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Audience, validation.Required, validation.In("everyone", "circle")),
		validation.Field(&r.Content, validation.Required, validation.Length(1, 280)),
		validation.Field(&r.ParentID, validation.NilOrNotEmpty, is.UUID),
	)
}

func (r *createPostRequest) toDraft() model.PostDraft {
	audience, _ := model.ParseAudience(r.Audience)
	draft := model.PostDraft{Audience: audience, Content: r.Content}
	if r.ParentID != nil {
		if id, err := uuid.Parse(*r.ParentID); err == nil {
			draft.ParentID = &id
		}
	}
	return draft
}

type postIDRequest struct {
	PostID string `json:"post_id"`
}

func (r *postIDRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PostID, validation.Required, is.UUID),
	)
}

type pageQuery struct {
	Limit int
	Page  int
}

func (q *pageQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Limit, validation.Required, validation.Min(1), validation.Max(model.MaxPageLimit)),
		validation.Field(&q.Page, validation.Required, validation.Min(1)),
	)
}

// parsePage reads limit and page from the query string. Missing values take
// their defaults.
func parsePage(r *http.Request) (model.Page, error) {
	q := pageQuery{Limit: model.DefaultPageLimit, Page: 1}
	values := r.URL.Query()
	for name, dst := range map[string]*int{"limit": &q.Limit, "page": &q.Page} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.Page{}, model.WrapError(model.KindInvalidArgument, name+": must be an integer", err)
		}
		*dst = n
	}
	if err := q.Validate(); err != nil {
		return model.Page{}, invalid(err)
	}
	return model.Page{Limit: q.Limit, Page: q.Page}, nil
}
