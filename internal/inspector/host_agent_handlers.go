/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package inspector

import (
	"fmt"

	"github.com/microsoft/hostinspector/pkg/cdp"
)

// A hostMethodHandler handles one Host-scoped method and returns the result to send back.
// Returning an error sends an error response instead (cdp.Error values keep their code).
type hostMethodHandler func(a *HostAgent, req cdp.PreparsedRequest) (any, error)

// Domains answered by the HostAgent. Unknown methods of these domains are reported as MethodNotFound;
// methods of any other domain are forwarded to the current instance.
var hostDomains = map[string]struct{}{
	"Log":             {},
	"Page":            {},
	"Overlay":         {},
	"Target":          {},
	"HostApplication": {},
}

var hostMethodHandlers map[string]hostMethodHandler

func init() {
	hostMethodHandlers = map[string]hostMethodHandler{
		"Log.enable":  (*HostAgent).handleLogEnable,
		"Log.disable": (*HostAgent).handleLogDisable,
		"Log.clear":   acknowledge,

		"Page.enable":  (*HostAgent).handlePageEnable,
		"Page.disable": (*HostAgent).handlePageDisable,
		"Page.reload":  (*HostAgent).handlePageReload,

		"Overlay.enable":                     acknowledge,
		"Overlay.disable":                    acknowledge,
		"Overlay.setPausedInDebuggerMessage": (*HostAgent).handleSetPausedInDebuggerMessage,

		"Target.setDiscoverTargets": (*HostAgent).handleSetDiscoverTargets,
		"Target.getTargets":         (*HostAgent).handleGetTargets,

		"HostApplication.enable":  (*HostAgent).handleHostApplicationEnable,
		"HostApplication.disable": (*HostAgent).handleHostApplicationDisable,
	}
}

func isHostDomain(domain string) bool {
	_, found := hostDomains[domain]
	return found
}

func acknowledge(_ *HostAgent, _ cdp.PreparsedRequest) (any, error) {
	return nil, nil
}

func (a *HostAgent) handleLogEnable(_ cdp.PreparsedRequest) (any, error) {
	a.sessionState.IsLogDomainEnabled = true
	a.runAfterResponse(func() {
		a.sendInfoLogEntry(a.describeSession())
	})
	return nil, nil
}

func (a *HostAgent) handleLogDisable(_ cdp.PreparsedRequest) (any, error) {
	a.sessionState.IsLogDomainEnabled = false
	return nil, nil
}

func (a *HostAgent) handlePageEnable(_ cdp.PreparsedRequest) (any, error) {
	a.sessionState.IsPageDomainEnabled = true
	return nil, nil
}

func (a *HostAgent) handlePageDisable(_ cdp.PreparsedRequest) (any, error) {
	a.sessionState.IsPageDomainEnabled = false
	return nil, nil
}

func (a *HostAgent) handlePageReload(req cdp.PreparsedRequest) (any, error) {
	var params ReloadRequest
	if decodeErr := req.DecodeParams(&params); decodeErr != nil {
		return nil, decodeErr
	}

	if reloadErr := a.targetController.Reload(params); reloadErr != nil {
		return nil, cdp.NewError(cdp.ServerError, "Reload failed: %v", reloadErr)
	}
	return nil, nil
}

func (a *HostAgent) handleSetPausedInDebuggerMessage(req cdp.PreparsedRequest) (any, error) {
	var params PausedInDebuggerMessageRequest
	if decodeErr := req.DecodeParams(&params); decodeErr != nil {
		return nil, decodeErr
	}

	showOverlay := params.Message != nil
	switch {
	case showOverlay && !a.isPausedInDebuggerOverlayVisible:
		a.targetController.IncrementPauseOverlayCounter()
	case !showOverlay && a.isPausedInDebuggerOverlayVisible:
		a.targetController.DecrementPauseOverlayCounter()
	}
	a.isPausedInDebuggerOverlayVisible = showOverlay

	if setErr := a.targetController.SetPausedInDebuggerMessage(params); setErr != nil {
		return nil, cdp.NewError(cdp.ServerError, "Could not update the paused overlay: %v", setErr)
	}
	return nil, nil
}

func (a *HostAgent) handleSetDiscoverTargets(req cdp.PreparsedRequest) (any, error) {
	var params struct {
		Discover *bool `json:"discover"`
	}
	if decodeErr := req.DecodeParams(&params); decodeErr != nil {
		return nil, decodeErr
	}
	if params.Discover == nil {
		return nil, cdp.NewError(cdp.InvalidParams, "'discover' parameter is required")
	}

	a.sessionState.IsTargetDiscoveryEnabled = *params.Discover
	return nil, nil
}

type targetInfo struct {
	TargetID string `json:"targetId"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Attached bool   `json:"attached"`
}

type getTargetsResult struct {
	TargetInfos []targetInfo `json:"targetInfos"`
}

func (a *HostAgent) handleGetTargets(_ cdp.PreparsedRequest) (any, error) {
	metadata := a.targetController.Metadata()

	hostID := metadata.AppIdentifier
	if hostID == "" {
		hostID = "host"
	}

	result := getTargetsResult{
		TargetInfos: []targetInfo{{
			TargetID: hostID,
			Type:     "page",
			Title:    metadata.AppDisplayName,
			Attached: true,
		}},
	}

	if a.instanceAgent != nil {
		result.TargetInfos = append(result.TargetInfos, targetInfo{
			TargetID: a.instanceID,
			Type:     "instance",
			Title:    fmt.Sprintf("%s (%s)", metadata.AppDisplayName, a.instanceID),
			Attached: true,
		})
	}

	return result, nil
}

func (a *HostAgent) handleHostApplicationEnable(_ cdp.PreparsedRequest) (any, error) {
	a.sessionState.IsHostApplicationDomainEnabled = true
	a.runAfterResponse(func() {
		a.sendEvent(EventHostApplicationMetadataUpdated, a.targetController.Metadata())
	})
	return nil, nil
}

func (a *HostAgent) handleHostApplicationDisable(_ cdp.PreparsedRequest) (any, error) {
	a.sessionState.IsHostApplicationDomainEnabled = false
	return nil, nil
}

func (a *HostAgent) describeSession() string {
	metadata := a.targetController.Metadata()

	host := metadata.AppDisplayName
	if host == "" {
		host = "the host"
	}

	via := ""
	if a.sessionMetadata.IntegrationName != "" {
		via = fmt.Sprintf(" via %s", a.sessionMetadata.IntegrationName)
	}

	if a.instanceAgent == nil {
		return fmt.Sprintf("Debugger connected to %s%s. No active instance.", host, via)
	}
	return fmt.Sprintf("Debugger connected to %s%s. Active instance: %s.", host, via, a.instanceID)
}
