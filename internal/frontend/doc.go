/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package frontend exposes a HostTarget to debugger frontends over WebSockets.
//
// The server implements the discovery endpoints that CDP clients use to find debuggable targets
// (/json/version and /json/list), and the /inspector/debug endpoint that turns every WebSocket connection
// into a HostTargetSession. Each text frame received from the frontend is one CDP request; every response
// and event produced by the session is sent back as one text frame.
package frontend
