package handler

import (
	"encoding/json"
	"net/http"

	"github.com/memberbase/member-registry/internal/http/response"
	"github.com/memberbase/member-registry/internal/service"
)

// VerifyHandler exposes the standalone ssn check. Format validation happens
// here so malformed input never reaches the verifier.
type VerifyHandler struct {
	verifier service.SSNVerifier
}

func NewVerifyHandler(verifier service.SSNVerifier) *VerifyHandler {
	return &VerifyHandler{verifier: verifier}
}

func (h *VerifyHandler) VerifySSN(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SSN string `json:"ssn"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SSN == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "ssn is required", nil)
		return
	}
	if !service.ValidSSN(body.SSN) {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid ssn format, use XXX-XX-XXXX", nil)
		return
	}

	verified, err := h.verifier.Verify(r.Context(), body.SSN)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to verify ssn", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"verified": verified})
}
