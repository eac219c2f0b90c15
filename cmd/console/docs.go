// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package main provides the Movie App Admin console server.
//
// @title Movie App Admin API
// @version 1.0
// @description Administrative console for a video-streaming catalog. The
// @description console holds one operator session against the upstream Movie
// @description App API and brokers catalog management, end-user account
// @description administration, analytics, and a local audit trail.
// @description
// @description ## Authentication
// @description
// @description Sign in through `/api/v1/auth/login`. The console maintains a
// @description single operator session; the upstream access token is refreshed
// @description transparently when it expires.
// @description
// @description ## Error Responses
// @description
// @description Every endpoint answers with the same envelope:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "requestId": "..."
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/rahulonit/movie-app-admin/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8085
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Auth
// @tag.description Operator session management
//
// @tag.name Catalog
// @tag.description Movies, series, seasons, and episodes
//
// @tag.name Accounts
// @tag.description End-user account administration
//
// @tag.name Analytics
// @tag.description Dashboards, revenue, top content, and local snapshot history
//
// @tag.name Audit
// @tag.description Local audit trail (admin only)
//
// @tag.name Realtime
// @tag.description Websocket feed of audit events and upstream health
package main
