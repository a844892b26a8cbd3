package robot

import (
	"fmt"
	"time"
)

// ReadJackState queries the physical jack position.
func (c *Client) ReadJackState() (JackState, error) {
	var resp JackStateResponse
	if err := c.get("/api/v1/state/jack", &resp); err != nil {
		return "", err
	}
	if err := checkResponse("jackState", &resp.Response); err != nil {
		return "", err
	}
	return resp.JackState, nil
}

// RaiseJack commands the jack up and waits until the sensor reports it raised.
func (c *Client) RaiseJack() error {
	return c.runJack("/api/v1/services/jack/up", JackUp)
}

// LowerJack commands the jack down and waits until the sensor reports it lowered.
func (c *Client) LowerJack() error {
	return c.runJack("/api/v1/services/jack/down", JackDown)
}

func (c *Client) runJack(path string, want JackState) error {
	var resp Response
	if err := c.post(path, nil, &resp); err != nil {
		return err
	}
	if err := checkResponse("jack", &resp); err != nil {
		return err
	}
	if err := c.waitForJack(want, c.cfg.JackTimeout); err != nil {
		return err
	}
	// Mechanical settling lags the sensor; give the frame time to take the
	// load before the step is considered complete.
	time.Sleep(c.cfg.JackSettleDelay)
	return nil
}

func (c *Client) waitForJack(want JackState, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		state, err := c.ReadJackState()
		if err != nil {
			return err
		}
		if state == want {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("jack did not reach %s after %s: %w", want, timeout, ErrTimeout)
		}
		time.Sleep(c.cfg.MovePollInterval)
	}
}

// EnsureJackDown lowers the jack if it is not already down. Used as a
// precondition before rack alignment: approaching a rack with a raised jack
// would collide, so the violation is corrected rather than reported.
func (c *Client) EnsureJackDown() error {
	state, err := c.ReadJackState()
	if err != nil {
		return err
	}
	if state == JackDown {
		return nil
	}
	return c.LowerJack()
}

// RequireJackUp fails if the jack is not up. Used as a precondition before an
// unload move: raising the jack here would mean lifting into an already-loaded
// position and risks dropping the load, so the violation fails fast.
func (c *Client) RequireJackUp() error {
	state, err := c.ReadJackState()
	if err != nil {
		return err
	}
	if state != JackUp {
		return &DeviceError{Op: "jackPrecondition", Detail: fmt.Sprintf("jack is %s, unload move requires it up", state)}
	}
	return nil
}
