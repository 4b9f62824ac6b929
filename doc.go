// Package main provides the entry point of PropertyLens, the admin API of a
// real estate photography website. It serves the public site content and a
// role based admin area over a JSON REST API built with Fiber, stores its data
// with gorm in sqlite, postgres or mysql and keeps uploads on local disk,
// AWS S3 or Cloudflare R2.
package main
