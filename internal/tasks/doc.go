// Package tasks runs photo uploads in the background with real-time progress reporting.
//
// # Bulk Upload
//
// [UploadEngine.BulkUpload] reads each file and posts it to the backend through an [Uploader] (normally
// services.Client), using a small worker pool. One failed file never stops the others; the [BulkUploadResult]
// lists every outcome.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Sends use select with default so a slow or absent
// reader never blocks an upload.
//
// # Authorization
//
// Tasks do not look at the session. The caller only starts an upload after the navigation engine has committed the
// upload route, and the client attaches the bearer token to each request.
package tasks
