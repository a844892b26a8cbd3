package robot

import "time"

// ReadPose returns the robot's current position in the map frame.
func (c *Client) ReadPose() (*PoseResponse, error) {
	var resp PoseResponse
	if err := c.get("/api/v1/state/pose", &resp); err != nil {
		return nil, err
	}
	if err := checkResponse("pose", &resp.Response); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReadChargingState returns whether the robot reports it is charging.
func (c *Client) ReadChargingState() (bool, error) {
	var resp BatteryResponse
	if err := c.get("/api/v1/state/battery", &resp); err != nil {
		return false, err
	}
	if err := checkResponse("battery", &resp.Response); err != nil {
		return false, err
	}
	return resp.IsCharging, nil
}

// ReadEmergencyStop returns whether the emergency stop is engaged.
func (c *Client) ReadEmergencyStop() (bool, error) {
	var resp EmergencyResponse
	if err := c.get("/api/v1/state/emergency", &resp); err != nil {
		return false, err
	}
	if err := checkResponse("emergency", &resp.Response); err != nil {
		return false, err
	}
	return resp.Engaged, nil
}

// CheckBin asks the device whether a physical load occupies the named point.
func (c *Client) CheckBin(point string) (bool, error) {
	var resp BinCheckResponse
	if err := c.post("/api/v1/bins/check", &BinCheckRequest{Point: point}, &resp); err != nil {
		return false, err
	}
	if err := checkResponse("binCheck", &resp.Response); err != nil {
		return false, err
	}
	return resp.Occupied, nil
}

// ReadStatus assembles a consolidated snapshot for the dashboard layer.
// Partial sensor failures degrade fields rather than failing the whole read.
func (c *Client) ReadStatus() *Status {
	st := &Status{}
	pose, err := c.ReadPose()
	if err != nil {
		return st
	}
	st.Connected = true
	st.X, st.Y, st.Orientation = pose.X, pose.Y, pose.Orientation

	var battery BatteryResponse
	if err := c.get("/api/v1/state/battery", &battery); err == nil && battery.Code == 0 {
		st.BatteryLevel = battery.BatteryLevel
		st.Charging = battery.IsCharging
	}
	if engaged, err := c.ReadEmergencyStop(); err == nil {
		st.Emergency = engaged
	}
	if jack, err := c.ReadJackState(); err == nil {
		st.JackState = string(jack)
	}
	return st
}

// --- charger return service calls (strategy methods 1-3) ---

// ReturnToChargerService invokes the device's dedicated return-to-charger service.
func (c *Client) ReturnToChargerService() error {
	var resp Response
	if err := c.post("/api/v1/services/return_to_charger", nil, &resp); err != nil {
		return err
	}
	return checkResponse("returnToCharger", &resp)
}

// SubmitChargingTask submits a charging task to the device's task queue.
func (c *Client) SubmitChargingTask() error {
	var resp Response
	if err := c.post("/api/v1/tasks/charging", nil, &resp); err != nil {
		return err
	}
	return checkResponse("chargingTask", &resp)
}

// BasicCharge calls the simple charge endpoint.
func (c *Client) BasicCharge() error {
	var resp Response
	if err := c.post("/api/v1/charge", nil, &resp); err != nil {
		return err
	}
	return checkResponse("basicCharge", &resp)
}

// ChargeVerifyWait returns the window to poll for is_charging after a return attempt.
func (c *Client) ChargeVerifyWait() time.Duration { return c.cfg.ChargeVerifyWait }

// MovePollInterval exposes the configured poll cadence for shared poll helpers.
func (c *Client) MovePollInterval() time.Duration { return c.cfg.MovePollInterval }
