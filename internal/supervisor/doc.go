// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

/*
Package supervisor runs LocShield's long-running services under a suture v4
supervisor tree.

	locshield (root)
	├── detection-layer
	│   └── ingest (detection.Engine.Run)
	└── api-layer
	    └── ops-http (if server.enabled)

Crashed services are restarted with suture's backoff. The ingest service
returns suture.ErrTerminateSupervisorTree when the log stream ends, which
stops the whole tree; SupervisorTree.Serve reports that case as nil so the
process exits with status 0.

Supervisor events are logged through sutureslog into the zerolog-backed
slog.Logger from logging.NewSlogLogger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDetectionService(services.NewIngestService(engine))
	if cfg.Server.Enabled {
	    tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))
	}
	return tree.Serve(ctx)
*/
package supervisor
