// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bloglist/internal/platform/middleware"
	requestutil "github.com/taibuivan/bloglist/internal/platform/request"
	"github.com/taibuivan/bloglist/internal/platform/respond"
)

// Handler implements the HTTP layer for blogs.
type Handler struct {
	blogService *Service
}

// NewHandler constructs a new blog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{blogService: service}
}

// Routes returns a [chi.Router] configured with the blog endpoints.
//
// # Endpoints
//   - GET    /        : Lists every blog with its owner.
//   - GET    /stats   : Aggregate like and author statistics.
//   - GET    /{id}    : Fetches one blog.
//   - POST   /        : Creates a blog owned by the caller.
//   - PUT    /{id}    : Updates likes (owner only).
//   - DELETE /{id}    : Deletes a blog (owner only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/stats", handler.stats)
	router.Get("/{id}", handler.get)
	router.With(middleware.RequireAuth).Post("/", handler.create)
	router.Put("/{id}", handler.updateLikes)
	router.Delete("/{id}", handler.delete)

	return router
}

type createRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

type updateRequest struct {
	Likes *int `json:"likes"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	blogs, err := handler.blogService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, blogs)
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.blogService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	blog, err := handler.blogService.FindByID(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, blog)
}

/*
POST /api/blogs.

Response:
  - 201: Blog with owner summary
  - 400: Validation failure
  - 401: No resolved identity
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, err := handler.blogService.Create(request.Context(), requestutil.Identity(request), CreateInput{
		Title:  input.Title,
		Author: input.Author,
		URL:    input.URL,
		Likes:  input.Likes,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, blog)
}

/*
PUT /api/blogs/{id}.

Response:
  - 200: Updated blog
  - 400: Malformed JSON or invalid likes
  - 401: Anonymous or not the owner
  - 404: Unknown id
*/
func (handler *Handler) updateLikes(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, err := handler.blogService.UpdateLikes(request.Context(),
		requestutil.Identity(request), requestutil.Param(request, "id"), input.Likes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, blog)
}

/*
DELETE /api/blogs/{id}.

Response:
  - 204: Deleted
  - 401: Anonymous or not the owner
  - 404: Unknown id
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	err := handler.blogService.Delete(request.Context(),
		requestutil.Identity(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
