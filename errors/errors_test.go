package errors

import (
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestRegisterDuplicateCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(2, "duplicate of unauthorized")
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind      *Error
		err       error
		wantMatch bool
	}{
		"instance of the same kind": {
			kind:      ErrUnauthorized,
			err:       ErrUnauthorized,
			wantMatch: true,
		},
		"wrapped instance": {
			kind:      ErrNotFound,
			err:       Wrap(ErrNotFound, "not here"),
			wantMatch: true,
		},
		"double wrapped instance": {
			kind:      ErrState,
			err:       Wrap(Wrap(ErrState, "inner"), "outer"),
			wantMatch: true,
		},
		"different kind": {
			kind:      ErrUnauthorized,
			err:       Wrap(ErrNotFound, "not here"),
			wantMatch: false,
		},
		"stdlib error": {
			kind:      ErrUnauthorized,
			err:       fmt.Errorf("unauthorized"),
			wantMatch: false,
		},
		"nil error": {
			kind:      ErrUnauthorized,
			err:       nil,
			wantMatch: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantMatch {
				t.Fatalf("want %v, got %v", tc.wantMatch, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "ignored"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrapMessage(t *testing.T) {
	err := Wrap(ErrEmpty, "arbiter")
	if got := err.Error(); got != "arbiter: value is empty" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestWrapAttachesStackTrace(t *testing.T) {
	err := Wrap(ErrInput, "bad payload")

	type stackTracer interface {
		StackTrace() pkgerrors.StackTrace
	}
	st, ok := err.(stackTracer)
	if !ok {
		t.Fatal("no stack trace attached")
	}
	if len(st.StackTrace()) == 0 {
		t.Fatal("empty stack trace")
	}

	// The trace must point to this test file, not to the errors package
	// internals, because only the most inner wrap records the trace.
	if full := fmt.Sprintf("%+v", err); !strings.Contains(full, "errors_test.go") {
		t.Fatalf("stack trace does not contain caller information: %s", full)
	}
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("totally unexpected")
	}()

	if !ErrPanic.Is(err) {
		t.Fatalf("want ErrPanic, got %+v", err)
	}
	if !strings.Contains(err.Error(), "totally unexpected") {
		t.Fatalf("panic reason lost: %q", err)
	}
}
