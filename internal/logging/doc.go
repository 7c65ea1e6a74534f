// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package logging provides the process-wide zerolog logger.

Initialize once from main with the values loaded by the config package:

	logging.Init(logging.Config{
	    Level:  cfg.Logging.Level,
	    Format: cfg.Logging.Format,
	    Caller: cfg.Logging.Caller,
	})

Components that live for the whole process take a zerolog.Logger by value
and derive their own child:

	logger := logging.WithComponent("database")

Request-scoped code logs through Ctx, which attaches the request id,
correlation id and authenticated user id when present:

	logging.Ctx(r.Context()).Warn().Err(err).Msg("Rating rejected")

# Output

JSON is the default and is meant for log shippers. Set format to console
for local development.

# slog Bridge

SlogHandler adapts zerolog to log/slog for libraries that only accept a
*slog.Logger, such as the suture supervisor event hook.

Always terminate event chains with Msg or Send, otherwise nothing is written.
*/
package logging
