package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"

	"github.com/memberbase/member-registry/internal/domain"
)

var (
	ssnRe        = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)
	phoneDashRe  = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	phoneParenRe = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)
	dobRe        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// FieldErrors carries one message per offending input field. It satisfies
// error so services can return it through the usual error path; handlers map
// it to a 400 with per-field detail.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validEmail(v string) bool {
	addr, err := mail.ParseAddress(v)
	return err == nil && addr.Address == v
}

func validPhone(v string) bool {
	return phoneDashRe.MatchString(v) || phoneParenRe.MatchString(v)
}

func ValidSSN(v string) bool { return ssnRe.MatchString(v) }

func validateAddress(errs FieldErrors, a domain.Address) {
	if strings.TrimSpace(a.Street) == "" {
		errs["address.street"] = "street is required"
	}
	if strings.TrimSpace(a.City) == "" {
		errs["address.city"] = "city is required"
	}
	if strings.TrimSpace(a.State) == "" {
		errs["address.state"] = "state is required"
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		errs["address.postalCode"] = "postal code is required"
	}
}

// normalize happens before validation so the checked value and the stored
// value are the same one.
func (in *CreateMemberInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
}

func (in *UpdateMemberInput) normalize() {
	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		*in.Email = strings.TrimSpace(strings.ToLower(*in.Email))
	}
}

func (in CreateMemberInput) validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if !validEmail(in.Email) {
		errs["email"] = "invalid email address"
	}
	if !ValidSSN(in.SSN) {
		errs["ssn"] = "ssn must be in format XXX-XX-XXXX"
	}
	if !validPhone(in.Phone) {
		errs["phone"] = "phone must be in format XXX-XXX-XXXX or (XXX) XXX-XXXX"
	}
	if !dobRe.MatchString(in.DOB) {
		errs["dob"] = "dob must be in format YYYY-MM-DD"
	}
	validateAddress(errs, in.Address)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (in UpdateMemberInput) validate() FieldErrors {
	errs := FieldErrors{}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		errs["name"] = "name is required"
	}
	if in.Email != nil && !validEmail(*in.Email) {
		errs["email"] = "invalid email address"
	}
	if in.SSN != nil && !ValidSSN(*in.SSN) {
		errs["ssn"] = "ssn must be in format XXX-XX-XXXX"
	}
	if in.Phone != nil && !validPhone(*in.Phone) {
		errs["phone"] = "phone must be in format XXX-XXX-XXXX or (XXX) XXX-XXXX"
	}
	if in.DOB != nil && !dobRe.MatchString(*in.DOB) {
		errs["dob"] = "dob must be in format YYYY-MM-DD"
	}
	if in.Address != nil {
		validateAddress(errs, *in.Address)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
