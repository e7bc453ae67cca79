package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Pointer returns the cursor position in root window coordinates.
func (c *Connection) Pointer() (x, y int, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}
