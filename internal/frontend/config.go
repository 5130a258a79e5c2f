/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package frontend

import (
	"time"
)

const (
	DefaultListenAddress     = "localhost:8081"
	DefaultMessagesPerSecond = 500
	DefaultBurst             = 100
	DefaultPingPeriod        = 10 * time.Second
)

type ServerConfig struct {
	// Address (host:port) the server listens on.
	ListenAddress string

	// Maximum sustained rate of inbound CDP messages per connection. Zero or negative means unlimited.
	// Messages over the limit are delayed, never dropped.
	MessagesPerSecond float64

	// Number of messages a connection may send in a burst above MessagesPerSecond.
	Burst int

	// How often the server pings connected frontends. Zero disables keepalive.
	// A frontend that does not answer within two ping periods is disconnected.
	PingPeriod time.Duration

	// Product name reported by /json/version.
	ProductName string
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddress:     DefaultListenAddress,
		MessagesPerSecond: DefaultMessagesPerSecond,
		Burst:             DefaultBurst,
		PingPeriod:        DefaultPingPeriod,
		ProductName:       "hostinspector",
	}
}
