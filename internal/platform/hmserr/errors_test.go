package hmserr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestInvalidTransitionMessage(t *testing.T) {
	err := NewInvalidTransition("appointment", "a-1", "cancelled", "arrive")
	want := "cannot arrive: appointment a-1 is cancelled"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestConflictMessage(t *testing.T) {
	err := NewConflict("bed", "b-1", "occupied")
	if err.Error() != "conflict: bed b-1 is occupied" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidation("provider", "is required"), http.StatusUnprocessableEntity},
		{NewNotFound("ward", "w-1"), http.StatusNotFound},
		{NewInvalidTransition("appointment", "a-1", "completed", "cancel"), http.StatusConflict},
		{NewConflict("bed", "b-1", "occupied"), http.StatusConflict},
		{NewPermissionDenied("delete appointment"), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHTTPStatus_Wrapped(t *testing.T) {
	err := fmt.Errorf("save note: %w", NewNotFound("appointment", "a-1"))
	if got := HTTPStatus(err); got != http.StatusNotFound {
		t.Errorf("expected 404 for wrapped NotFoundError, got %d", got)
	}
}

func TestToHTTP_HidesInternalDetail(t *testing.T) {
	he := ToHTTP(errors.New("pq: connection refused"))
	if he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", he.Code)
	}
	if he.Message != "internal error" {
		t.Errorf("internal errors must not leak detail, got %v", he.Message)
	}
}
