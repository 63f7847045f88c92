// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package httpapi

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/auth"
)

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type beginResetRequest struct {
	Email string `json:"email"`
}

type completeResetRequest struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type verifyTokenResponse struct {
	Message string        `json:"message"`
	User    auth.Identity `json:"user"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	_, err := a.accounts.Register(r.Context(), auth.RegisterRequest{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	session, err := a.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful!", Token: session.Token})
}

func (a *API) handleBeginReset(w http.ResponseWriter, r *http.Request) {
	var req beginResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	if err := a.accounts.BeginReset(r.Context(), req.Email); err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeMessage(w, http.StatusAccepted, "Email varified successfully, Please reset your password")
}

func (a *API) handleCompleteReset(w http.ResponseWriter, r *http.Request) {
	var req completeResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	err := a.accounts.CompleteReset(r.Context(), auth.CompleteResetRequest{
		Email:           req.Email,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password reset successful!")
}

func (a *API) handleVerifyToken(w http.ResponseWriter, _ *http.Request, id auth.Identity) {
	writeJSON(w, http.StatusOK, verifyTokenResponse{Message: "Token is valid", User: id})
}
