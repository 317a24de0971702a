package httpapi

import (
	"net/http"

	"admitdesk.org/internal/profile"
)

type updateProfileRequest struct {
	FullName string `json:"full_name"`
	DOB      string `json:"dob"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photo_url"`
	OTP      string `json:"otp"`
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		prof, err := a.svc.Profile.Get(r.Context(), p)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", prof)
	case http.MethodPut:
		var req updateProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		err := a.svc.Profile.Update(r.Context(), p, profile.UpdateRequest{
			FullName: req.FullName,
			DOB:      req.DOB,
			Phone:    req.Phone,
			PhotoURL: req.PhotoURL,
			OTP:      req.OTP,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "profile updated successfully", nil)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

func (a *API) handleProfileSendOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req sendOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.svc.Profile.SendOTP(r.Context(), p, req.Phone); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "verification code sent", nil)
}

func (a *API) handleProfilePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.svc.Profile.ChangePassword(r.Context(), p, req.OldPassword, req.NewPassword); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "password changed successfully", nil)
}
