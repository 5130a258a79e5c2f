/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

/*
Package inspector routes Chrome DevTools Protocol (CDP) traffic between debugging frontends
and an inspectable Host.

# Lifetimes

Three lifetimes meet here:
  - The Host (HostTarget) lives for as long as the application process is inspectable.
  - An Instance (InstanceTarget) is a unit of running code inside the Host. It can be destroyed
    and replaced (for example on reload) while frontends stay connected.
  - A session (HostTargetSession) exists for as long as one frontend is connected.

Each session owns a HostAgent. The HostAgent answers Host-scoped methods (Log, Page, Overlay,
Target, HostApplication domains) itself and forwards everything else to the InstanceAgent that
the current Instance created for that session. When the Instance changes, the HostTarget swaps
the InstanceAgent of every session and each HostAgent tells its frontend about the change.

# Threading

HostAgent, SessionState and the executor-side state of HostTarget are not safe for concurrent use.
They are confined to a single goroutine: the concurrency.SerialExecutor the HostTarget was created with.
Public HostTarget and HostTargetSession methods may be called from any goroutine; they post work
to the executor. FrontendChannel and InstanceAgent implementations are only ever invoked on the executor.
*/
package inspector
