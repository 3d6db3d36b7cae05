package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errUpstream = errors.New("upstream down")

func TestErrorMapperMap(t *testing.T) {
	mapper := NewErrorMapper().
		WithMapping(errUpstream, http.StatusBadGateway, "backend unreachable").
		WithTimeoutMessage("backend timeout")

	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{name: "nil", err: nil, status: http.StatusOK, msg: ""},
		{name: "wrapped mapping", err: fmt.Errorf("%w: dial tcp", errUpstream), status: http.StatusBadGateway, msg: "backend unreachable"},
		{name: "deadline wins", err: fmt.Errorf("%w: %w", errUpstream, context.DeadlineExceeded), status: http.StatusGatewayTimeout, msg: "backend timeout"},
		{name: "cancelled", err: context.Canceled, status: http.StatusServiceUnavailable, msg: "request cancelled"},
		{name: "default", err: errors.New("other"), status: http.StatusInternalServerError, msg: "internal server error"},
	}
	for _, tc := range cases {
		info := mapper.Map(tc.err)
		if info.Status != tc.status || info.Message != tc.msg {
			t.Fatalf("%s: got %d %q, want %d %q", tc.name, info.Status, info.Message, tc.status, tc.msg)
		}
	}
}

func TestErrorMapperHTTPError(t *testing.T) {
	mapper := NewErrorMapper().WithDefault(http.StatusTeapot, "short and stout")
	err := errors.New("boom")

	httpErr := mapper.HTTPError(err)
	if httpErr.Code != http.StatusTeapot || httpErr.Message != "short and stout" {
		t.Fatalf("unexpected http error: %+v", httpErr)
	}
	if !errors.Is(httpErr, err) {
		t.Fatalf("expected internal error to be preserved")
	}
}
