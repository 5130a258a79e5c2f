/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

// hostTargetController gives HostAgents access to the Host. Used only on the executor goroutine.
type hostTargetController struct {
	target *HostTarget

	// Number of sessions currently showing the "paused in debugger" overlay.
	pauseOverlayCounter int
}

var _ HostTargetController = (*hostTargetController)(nil)

func (c *hostTargetController) Metadata() HostTargetMetadata {
	return c.target.delegate.Metadata()
}

func (c *hostTargetController) Reload(req ReloadRequest) error {
	return c.target.delegate.OnReload(req)
}

func (c *hostTargetController) SetPausedInDebuggerMessage(req PausedInDebuggerMessageRequest) error {
	return c.target.delegate.OnSetPausedInDebuggerMessage(req)
}

func (c *hostTargetController) IncrementPauseOverlayCounter() {
	c.pauseOverlayCounter++
}

func (c *hostTargetController) DecrementPauseOverlayCounter() {
	if c.pauseOverlayCounter == 0 {
		c.target.log.Info("Pause overlay counter is already zero")
		return
	}

	c.pauseOverlayCounter--
	if c.pauseOverlayCounter > 0 {
		return
	}

	if err := c.target.delegate.OnSetPausedInDebuggerMessage(PausedInDebuggerMessageRequest{}); err != nil {
		c.target.log.Error(err, "Could not clear the paused in debugger overlay")
	}
}
