package hostbus

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestOpenUnknownDriver(t *testing.T) {
	c := qt.New(t)
	b, err := Open("spidev", 1, 0x68)
	c.Assert(err, qt.ErrorMatches, `hostbus: unknown driver "spidev"`)
	c.Assert(b, qt.IsNil)
}
