// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package httpapi

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/post"
)

// postRequest accepts the picture URL as either "image" or "picture".
type postRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Picture     string `json:"picture"`
}

func (p postRequest) input() post.Input {
	picture := p.Picture
	if picture == "" {
		picture = p.Image
	}
	return post.Input{Title: p.Title, Description: p.Description, Picture: picture}
}

type postResponse struct {
	Message string     `json:"message"`
	Blog    *post.Post `json:"blog"`
}

type postsResponse struct {
	Message string       `json:"message"`
	Blogs   []*post.Post `json:"blogs"`
}

func (a *API) handleCreatePost(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	created, err := a.posts.Create(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, postResponse{Message: "Blog created successfully", Blog: created})
}

func (a *API) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.List(r.Context())
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	if posts == nil {
		posts = []*post.Post{}
	}
	writeJSON(w, http.StatusOK, postsResponse{Message: "Blogs fetched successfully", Blogs: posts})
}

func (a *API) handleGetPost(w http.ResponseWriter, r *http.Request) {
	found, err := a.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Message: "Blog fetched successfully", Blog: found})
}

func (a *API) handleUpdatePost(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	updated, err := a.posts.Update(r.Context(), id, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Message: "Blog updated successfully", Blog: updated})
}

func (a *API) handleDeletePost(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	if err := a.posts.Delete(r.Context(), id, r.PathValue("id")); err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Blog deleted successfully")
}
