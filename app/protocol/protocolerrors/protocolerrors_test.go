package protocolerrors

import (
	"testing"

	"github.com/pkg/errors"
)

var errUnderlying = errors.New("underlying")

func TestProtocolErrors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		shouldBan     bool
		wrapsUnderlay bool
	}{
		{name: "New", err: New(true, "bad message"), shouldBan: true},
		{name: "Errorf", err: Errorf(false, "bad message %d", 1), shouldBan: false},
		{name: "Wrap", err: Wrap(true, errUnderlying, "context"), shouldBan: true, wrapsUnderlay: true},
		{name: "Wrapf", err: Wrapf(false, errUnderlying, "context %s", "x"), shouldBan: false, wrapsUnderlay: true},
		{name: "plain error", err: errUnderlying, shouldBan: false, wrapsUnderlay: true},
	}

	for _, test := range tests {
		if ShouldBan(test.err) != test.shouldBan {
			t.Errorf("%s: expected ShouldBan to be %t", test.name, test.shouldBan)
		}
		if errors.Is(test.err, errUnderlying) != test.wrapsUnderlay {
			t.Errorf("%s: expected errors.Is(err, errUnderlying) to be %t", test.name, test.wrapsUnderlay)
		}
	}

	wrapped := errors.Wrap(New(true, "inner"), "outer")
	if !ShouldBan(wrapped) {
		t.Errorf("ShouldBan: a wrapped ProtocolError wasn't detected")
	}
}
