package robot

import (
	"fmt"
	"time"
)

// SendMove issues a move request and returns the device-assigned move ID.
// It does not wait for completion; pair with WaitForMove.
func (c *Client) SendMove(x, y, orientation float64, moveType MoveType) (string, error) {
	var resp MoveCreatedResponse
	req := &MoveRequest{X: x, Y: y, Orientation: orientation, MoveType: moveType}
	if err := c.post("/api/v1/moves", req, &resp); err != nil {
		return "", err
	}
	if err := checkResponse("sendMove", &resp.Response); err != nil {
		return "", err
	}
	if resp.MoveID == "" {
		return "", &DeviceError{Op: "sendMove", Detail: "device returned empty move id"}
	}
	return resp.MoveID, nil
}

// GetMoveState reads the current state of a move.
func (c *Client) GetMoveState(moveID string) (*MoveStateResponse, error) {
	var resp MoveStateResponse
	if err := c.get("/api/v1/moves/"+moveID, &resp); err != nil {
		return nil, err
	}
	if err := checkResponse("moveState", &resp.Response); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WaitForMove polls a move at the configured interval until the device reports
// a terminal state or timeout elapses. A failed or cancelled move is a
// DeviceError; an exhausted window is ErrTimeout.
func (c *Client) WaitForMove(moveID string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		state, err := c.GetMoveState(moveID)
		if err != nil {
			return err
		}
		switch state.State {
		case MoveSucceeded:
			return nil
		case MoveFailed:
			return &DeviceError{Op: "move " + moveID, Detail: failDetail("move failed", state.FailReason)}
		case MoveCancelled:
			return &DeviceError{Op: "move " + moveID, Detail: "move cancelled by device"}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("move %s after %s: %w", moveID, timeout, ErrTimeout)
		}
		time.Sleep(c.cfg.MovePollInterval)
	}
}

// CancelCurrentMove asks the device to abort whatever move is in progress.
func (c *Client) CancelCurrentMove() error {
	var resp Response
	if err := c.post("/api/v1/moves/current/cancel", nil, &resp); err != nil {
		return err
	}
	return checkResponse("cancelMove", &resp)
}

// MoveTimeoutFor returns the polling window appropriate for a move type.
// Precision moves (rack alignment, unload positioning) get the shorter window.
func (c *Client) MoveTimeoutFor(moveType MoveType) time.Duration {
	switch moveType {
	case MoveAlignRack, MoveToUnload:
		return c.cfg.AlignTimeout
	default:
		return c.cfg.MoveTimeout
	}
}

func failDetail(prefix, reason string) string {
	if reason == "" {
		return prefix
	}
	return prefix + ": " + reason
}
