package handler

import (
	"net/http"

	"fsanano/glacierfarm/internal/model"
	"fsanano/glacierfarm/internal/service"
)

type SignupRequest struct {
	FarmName        string `json:"farmName"`
	Email           string `json:"email"`
	Location        string `json:"location"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FarmName *string `json:"farmName"`
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  *model.Account `json:"user"`
}

type userResponse struct {
	User *model.Account `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	account, token, err := h.auth.Register(r.Context(), service.RegisterInput{
		FarmName:        req.FarmName,
		Email:           req.Email,
		Location:        req.Location,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: account})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	account, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: account})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.auth.GetAccount(r.Context(), accountID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: account})
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	account, err := h.auth.UpdateProfile(r.Context(), accountID(r.Context()), model.ProfilePatch{
		FarmName: req.FarmName,
		Location: req.Location,
		Phone:    req.Phone,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: account})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), accountID(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}
