// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bloglist/internal/platform/request"
	"github.com/taibuivan/bloglist/internal/platform/respond"
)

// Handler implements the HTTP layer for account registration and listing.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Endpoints
//   - POST / : Registers a new account.
//   - GET  / : Lists every account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/", handler.list)

	return router
}

type createRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

/*
POST /api/users.

Response:
  - 201: Account: The created account (no password hash)
  - 400: Validation failure or username already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.Create(request.Context(), CreateInput{
		Username:    input.Username,
		DisplayName: input.Name,
		Password:    input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
GET /api/users.

Response:
  - 200: []Account
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	accounts, err := handler.accountService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, accounts)
}
