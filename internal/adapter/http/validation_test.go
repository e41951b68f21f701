package http

import (
	"testing"
)

type validatedReq struct {
	ID    string `validate:"hex32"`
	DOB   string `validate:"dob"`
	Email string `validate:"required,email"`
}

func TestCustomValidator_Tags(t *testing.T) {
	cv := NewValidator()

	ok := validatedReq{
		ID:    "0123456789abcdef0123456789abcdef",
		DOB:   "1990-01-01",
		Email: "ada@example.com",
	}
	if err := cv.Validate(&ok); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	// empty dob is allowed
	ok.DOB = ""
	if err := cv.Validate(&ok); err != nil {
		t.Fatalf("empty dob rejected: %v", err)
	}

	cases := []validatedReq{
		{ID: "UPPERCASE89abcdef0123456789abcdef", DOB: "1990-01-01", Email: "a@b.c"},
		{ID: "short", DOB: "1990-01-01", Email: "a@b.c"},
		{ID: "0123456789abcdef0123456789abcdef", DOB: "01-01-1990", Email: "a@b.c"},
		{ID: "0123456789abcdef0123456789abcdef", DOB: "1990-01-01", Email: "not-an-email"},
	}
	for i, req := range cases {
		if err := cv.Validate(&req); err == nil {
			t.Errorf("case %d: invalid struct accepted: %+v", i, req)
		}
	}
}

func TestToFieldErrors_Messages(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(&validatedReq{ID: "nope", DOB: "nope", Email: ""})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	got := map[string]string{}
	for _, fe := range ToFieldErrors(err) {
		got[fe.Field] = fe.Message
	}
	want := map[string]string{
		"ID":    "must be 32-char lowercase hex",
		"DOB":   "must be YYYY-MM-DD",
		"Email": "is required",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: message = %q, want %q", field, got[field], msg)
		}
	}
}
