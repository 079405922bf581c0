package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/chirp-server/internal/model"
)

func strPtr(s string) *string {
	return &s
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() registerRequest {
		return registerRequest{
			Email:           " ada@example.com ",
			Password:        "Secret1!",
			ConfirmPassword: "Secret1!",
			Name:            "Ada",
			DateOfBirth:     "1990-12-10",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *registerRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(*registerRequest) {}},
		{name: "rfc3339 date", mutate: func(r *registerRequest) { r.DateOfBirth = "1990-12-10T00:00:00Z" }},
		{name: "bad email", mutate: func(r *registerRequest) { r.Email = "ada" }, wantErr: "email"},
		{name: "short password", mutate: func(r *registerRequest) { r.Password, r.ConfirmPassword = "Aa1!", "Aa1!" }, wantErr: "password"},
		{name: "weak password", mutate: func(r *registerRequest) { r.Password, r.ConfirmPassword = "secret123", "secret123" }, wantErr: "password"},
		{name: "mismatched confirmation", mutate: func(r *registerRequest) { r.ConfirmPassword = "Secret2!" }, wantErr: "confirm_password"},
		{name: "blank name", mutate: func(r *registerRequest) { r.Name = "   " }, wantErr: "name"},
		{name: "bad date", mutate: func(r *registerRequest) { r.DateOfBirth = "10/12/1990" }, wantErr: "date_of_birth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "ada@example.com", req.Email)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUpdateMeRequest(t *testing.T) {
	t.Run("empty patch is valid", func(t *testing.T) {
		req := updateMeRequest{}
		require.NoError(t, req.Validate())
		assert.Equal(t, model.ProfileUpdate{}, req.toUpdate())
	})

	t.Run("fields are carried over", func(t *testing.T) {
		req := updateMeRequest{Name: strPtr("Grace"), Bio: strPtr(""), DateOfBirth: strPtr("1906-12-09")}
		require.NoError(t, req.Validate())

		update := req.toUpdate()
		assert.Equal(t, "Grace", *update.Name)
		assert.Equal(t, "", *update.Bio)
		assert.Equal(t, time.Date(1906, 12, 9, 0, 0, 0, 0, time.UTC), *update.DateOfBirth)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		req := updateMeRequest{Name: strPtr("")}
		assert.Error(t, req.Validate())
	})

	t.Run("bad date is rejected", func(t *testing.T) {
		req := updateMeRequest{DateOfBirth: strPtr("yesterday")}
		assert.Error(t, req.Validate())
	})
}

func TestCreatePostRequest_Validate(t *testing.T) {
	assert.NoError(t, (&createPostRequest{Audience: "circle", Content: "hi"}).Validate())
	assert.Error(t, (&createPostRequest{Audience: "friends", Content: "hi"}).Validate())
	assert.Error(t, (&createPostRequest{Audience: "everyone", Content: strings.Repeat("a", 281)}).Validate())
	assert.Error(t, (&createPostRequest{Audience: "everyone"}).Validate())
	assert.Error(t, (&createPostRequest{Audience: "everyone", Content: "hi", ParentID: strPtr("42")}).Validate())

	parent := "7d1e6a3c-8b4f-4f7e-9a55-0f3b2f0c9e21"
	req := createPostRequest{Audience: "circle", Content: "hi", ParentID: &parent}
	require.NoError(t, req.Validate())
	draft := req.toDraft()
	assert.Equal(t, model.AudienceCircle, draft.Audience)
	require.NotNil(t, draft.ParentID)
	assert.Equal(t, parent, draft.ParentID.String())
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query   string
		want    model.Page
		wantErr bool
	}{
		{query: "", want: model.Page{Limit: model.DefaultPageLimit, Page: 1}},
		{query: "?limit=5&page=3", want: model.Page{Limit: 5, Page: 3}},
		{query: "?limit=0", wantErr: true},
		{query: "?limit=101", wantErr: true},
		{query: "?page=0", wantErr: true},
		{query: "?page=two", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/posts/x/children"+tt.query, nil)

			got, err := parsePage(r)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserIDRequest_Validate(t *testing.T) {
	assert.NoError(t, (&userIDRequest{UserID: "7d1e6a3c-8b4f-4f7e-9a55-0f3b2f0c9e21"}).Validate())
	assert.Error(t, (&userIDRequest{UserID: "42"}).Validate())
}

func TestDecodeJSON(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/users/login", strings.NewReader("{"))
		var req loginRequest

		err := decodeJSON(r, &req)
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})

	t.Run("validation failure", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/users/login", strings.NewReader(`{"email":"nope"}`))
		var req loginRequest

		err := decodeJSON(r, &req)
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})

	t.Run("no validation for plain payloads", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/users/refresh-token", strings.NewReader(`{"refresh_token":""}`))
		var req refreshTokenRequest

		require.NoError(t, decodeJSON(r, &req))
		assert.Empty(t, req.RefreshToken)
	})
}
