// Package radarr provides an HTTP client for the Radarr v3 API.
//
// # Overview
//
// A Client is bound to one configured instance. Every request goes to
// {instance url}/api/v3{endpoint} and carries the instance API key in the
// X-Api-Key header. Instances behind a reverse proxy may include a base path
// in their URL (for example https://host/radarr).
//
// # Architecture
//
//   - client.go: request plumbing, read operations, mutations and APIError
//   - types.go: structs mirroring the Radarr resources reel displays
//
// # Client Usage
//
//	client, err := radarr.NewClient(inst, radarr.WithUserAgent("reel/1.0"))
//	if err != nil {
//		return err
//	}
//
//	movies, err := client.Movies(ctx)
//	if err != nil {
//		return err
//	}
//
// # API Endpoints
//
// Reads:
//
//   - GET /movie, /movie/{id}, /movie/lookup?term=
//   - GET /queue (paged, all pages, movie inlined)
//   - GET /calendar?start=&end=
//   - GET /wanted/missing (paged, all pages)
//   - GET /history (paged), filtered with movieId=
//   - GET /health, /system/status
//   - GET /qualityprofile, /rootfolder
//
// Mutations:
//
//   - POST /movie (AddMovie)
//   - DELETE /queue/{id} (RemoveQueueItem)
//
// TestConnection issues GET /system/status and reports only a bool. The
// underlying error is handed to the ErrorHook configured with WithErrorHook.
//
// # Error Handling
//
// Transport failures, non-2xx responses and undecodable bodies all surface as
// *APIError carrying the instance name, method, path, status code, a short
// message and the raw response body. Radarr returns either {"message": ...}
// or a list of validation failures; the message is taken from whichever is
// present.
//
// Removing a queue item twice returns an APIError with status 404. Callers
// that treat that as success check IsNotFound.
//
// # Consistency
//
// The client does not cache. Two endpoints fetched moments apart may disagree
// (a movie can appear in both the library and the missing list with different
// hasFile values) and nothing here reconciles them.
//
// # Thread Safety
//
// A Client is safe for concurrent use.
package radarr
