// Package main is the entry point for the Querybox MCP server.
//
// The Querybox server implements a Model Context Protocol (MCP) server that
// executes model-written JavaScript query snippets against crypto market,
// metadata, wallet, and social data capabilities. Snippets run inside an
// embedded runtime with a closed set of bound functions; nothing outside
// the capability registry is reachable. The server supports both stdio and
// HTTP transports.
//
// The application uses Uber's fx framework for dependency injection and
// lifecycle management, with zap for structured logging and viper for
// configuration.
package main
