/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

/*
Package cdp contains the Chrome DevTools Protocol message model used by the host inspector.

Requests arrive as JSON text of the form

	{"id": 1, "method": "Domain.method", "params": {...}}

and are pre-parsed into a PreparsedRequest: the id is kept verbatim (number or string)
so that it can be echoed back, the method is split into its domain and method name on demand,
and the params are left undecoded until a handler asks for them.

Outbound messages are produced with JSONResult, JSONError and JSONNotification.
Responses always carry the id of the request they answer; notifications (events) never do.
*/
package cdp
