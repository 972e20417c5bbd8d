// Package provider implements the HTTP clients for the external data
// providers: Mobula for market, metadata and wallet data, LunarCrush for
// social metrics and news.
//
// Lookups degrade along the error taxonomy the engine expects: transport
// failures, non-success statuses and malformed payloads become an
// *APIError; missing-but-not-erroneous fields decode into nil pointers so
// the capability layer can render its sentinel instead of failing.
package provider
