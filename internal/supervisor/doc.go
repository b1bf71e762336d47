// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package supervisor provides process supervision for the recommendation
service using suture v4.

# Overview

Long-running services are organized into three layers:

	RootSupervisor ("curator")
	├── DataSupervisor ("data-layer")
	│   └── SimilarityService (scheduled similarity rebuilds)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService (if events.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with backoff; a failing layer does not take the
others down. Supervisor events are logged through sutureslog into the
zerolog-backed slog handler from the logging package.

# Usage

	slogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddDataService(services.NewSimilarityService(engine, db, simCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, addr, 10*time.Second, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

After Serve returns, UnstoppedServiceReport lists services that ignored the
shutdown timeout.
*/
package supervisor
