// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bloglist/internal/platform/middleware"
	requestutil "github.com/taibuivan/bloglist/internal/platform/request"
	"github.com/taibuivan/bloglist/internal/platform/respond"
)

// Handler implements the login endpoint.
//
// It is mounted outside the identity middleware: a stale token on the
// login request must never block a fresh login.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the login route.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.login)
	return router
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
POST /api/login.

Response:
  - 200: LoginResult: {token, username, name, id}
  - 400: Malformed JSON or missing fields
  - 401: {error: "invalid username or password"}
  - 429: Too many failed attempts from this client
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
		ClientIP: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
