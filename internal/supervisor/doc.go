// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

/*
Package supervisor runs the long-lived PriceWatch services under a suture v4
supervisor tree.

# Overview

	RootSupervisor ("pricewatch")
	├── DataSupervisor ("data-layer")
	│   └── PreferenceRefreshService (if refresh.enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Context cancellation
stops every layer; services that do not return within ShutdownTimeout are
listed by UnstoppedServiceReport.

Supervisor events (start, failure, backoff) are logged through sutureslog,
which takes a *slog.Logger; pass logging.NewSlogLogger() so they reach the
zerolog output.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddMessagingService(services.NewEventRouterService(router))
	tree.AddDataService(services.NewPreferenceRefreshService(db, engine, profiles, cfg, logger))

	return tree.Serve(ctx)
*/
package supervisor
