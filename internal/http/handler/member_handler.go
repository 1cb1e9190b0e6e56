package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/memberbase/member-registry/internal/domain"
	"github.com/memberbase/member-registry/internal/http/response"
	"github.com/memberbase/member-registry/internal/repository"
	"github.com/memberbase/member-registry/internal/service"
)

type MemberHandler struct {
	svc service.MemberServiceInterface
}

func NewMemberHandler(svc service.MemberServiceInterface) *MemberHandler {
	return &MemberHandler{svc: svc}
}

type verificationResult struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

func verificationMessage(verified bool) string {
	if verified {
		return "SSN verification successful"
	}
	return "SSN verification pending"
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to fetch members", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, members)
}

func (h *MemberHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	memberID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid member id", nil)
		return
	}

	member, err := h.svc.GetByID(r.Context(), memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "member not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load member", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, member)
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string         `json:"name"`
		Email   string         `json:"email"`
		Phone   string         `json:"phone"`
		SSN     string         `json:"ssn"`
		DOB     string         `json:"dob"`
		Address domain.Address `json:"address"`
	}
	// Server-assigned fields (id, dateAdded) are rejected outright rather
	// than silently dropped.
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	created, err := h.svc.Create(r.Context(), service.CreateMemberInput{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		SSN:     body.SSN,
		DOB:     body.DOB,
		Address: body.Address,
	})
	if err != nil {
		var fieldErrs service.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "validation error", fieldErrorDetails(fieldErrs))
		case errors.Is(err, repository.ErrDuplicateMember):
			response.Error(w, r, http.StatusConflict, "CONFLICT", "member with this email or ssn already exists", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create member", nil)
		}
		return
	}

	response.JSON(w, r, http.StatusCreated, map[string]any{
		"member": created,
		"verificationResult": verificationResult{
			Verified: created.Verified,
			Message:  verificationMessage(created.Verified),
		},
	})
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	memberID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid member id", nil)
		return
	}

	// Unknown fields (including id and dateAdded) are dropped here: the
	// patch struct simply has nowhere for them to land.
	var body struct {
		Name     *string         `json:"name"`
		Email    *string         `json:"email"`
		Phone    *string         `json:"phone"`
		SSN      *string         `json:"ssn"`
		DOB      *string         `json:"dob"`
		Address  *domain.Address `json:"address"`
		Verified *bool           `json:"verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	updated, err := h.svc.Update(r.Context(), memberID, service.UpdateMemberInput{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		SSN:      body.SSN,
		DOB:      body.DOB,
		Address:  body.Address,
		Verified: body.Verified,
	})
	if err != nil {
		var fieldErrs service.FieldErrors
		switch {
		case errors.Is(err, repository.ErrMemberNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "member not found", nil)
		case errors.As(err, &fieldErrs):
			response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "validation error", fieldErrorDetails(fieldErrs))
		case errors.Is(err, repository.ErrDuplicateMember):
			response.Error(w, r, http.StatusConflict, "CONFLICT", "member with this email or ssn already exists", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update member", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, updated)
}

// FilterByVerified treats status=true as the verified partition and any
// other value, including an absent parameter, as unverified.
func (h *MemberHandler) FilterByVerified(w http.ResponseWriter, r *http.Request) {
	verified := r.URL.Query().Get("status") == "true"
	members, err := h.svc.FilterByVerified(r.Context(), verified)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to fetch filtered members", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, members)
}

func fieldErrorDetails(errs service.FieldErrors) map[string]any {
	fields := make(map[string]any, len(errs))
	for field, msg := range errs {
		fields[field] = msg
	}
	return map[string]any{"fields": fields}
}
